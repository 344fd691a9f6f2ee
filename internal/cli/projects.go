package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	clierrors "github.com/ariel-frischer/newsbuilder/internal/errors"
	"github.com/ariel-frischer/newsbuilder/internal/project"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var projectsCmd = &cobra.Command{
	Use:   "projects <baseDir>",
	Short: "List the projects a release would build",
	Long: `List every directory under baseDir that has a topfiles directory, with the
name used in its release header and the version declared in its _version.py.
Projects are listed in the order they are released.`,
	Example: `  newsbuilder projects .
  newsbuilder projects . --yaml`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")
		infos, err := listProjects(args[0])
		if err != nil {
			return err
		}
		if asYAML {
			return writeProjectsYAML(cmd.OutOrStdout(), infos)
		}
		writeProjectsTable(cmd.OutOrStdout(), infos)
		return nil
	},
}

func init() {
	projectsCmd.Flags().Bool("yaml", false, "Print projects as YAML")
	rootCmd.AddCommand(projectsCmd)
}

// projectInfo is one row of the projects listing.
type projectInfo struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Path    string `yaml:"path"`
}

// listProjects reads every project's version concurrently; the listing keeps
// release order.
func listProjects(baseDir string) ([]projectInfo, error) {
	projects, err := project.Find(baseDir)
	if err != nil {
		return nil, err
	}
	ordered := project.ReleaseOrder(projects)

	infos := make([]projectInfo, len(ordered))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range ordered {
		g.Go(func() error {
			v, err := p.Version()
			if err != nil {
				return clierrors.MissingVersionFile(p.Dir, err)
			}
			rel, err := filepath.Rel(baseDir, p.Dir)
			if err != nil {
				rel = p.Dir
			}
			infos[i] = projectInfo{Name: p.Name(), Version: v.String(), Path: rel}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

func writeProjectsTable(w io.Writer, infos []projectInfo) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Version", "Path"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for _, info := range infos {
		table.Append([]string{info.Name, info.Version, info.Path})
	}
	table.Render()
}

func writeProjectsYAML(w io.Writer, infos []projectInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding projects: %w", err)
	}
	return enc.Close()
}
