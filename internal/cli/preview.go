package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/ariel-frischer/newsbuilder/internal/news"
	"github.com/ariel-frischer/newsbuilder/internal/watch"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <fragmentsDir>",
	Short: "Print the NEWS entry the fragments would produce",
	Long: `Render the fragments in fragmentsDir under the given header and print the
entry that a release would prepend. Nothing is written or removed.

With --watch the entry is printed again whenever the fragments change, until
interrupted.`,
	Example: `  newsbuilder preview twisted/topfiles --header "Twisted Core 16.7.0 (2026-10-19)"
  newsbuilder preview twisted/topfiles --header "Twisted Core 16.7.0 (2026-10-19)" --watch`,
	Args:    usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		header, _ := cmd.Flags().GetString("header")
		follow, _ := cmd.Flags().GetBool("watch")
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		b := news.NewBuilder(nil)
		b.Width = cfg.WrapWidth
		render := func() error {
			out, err := b.Preview(args[0], header)
			if err != nil {
				return classifyError(args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		if !follow {
			return render()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watch.Fragments(ctx, args[0], watch.DefaultDebounce, render)
	},
}

func init() {
	previewCmd.Flags().String("header", "", "Release header, e.g. \"Twisted Core 16.7.0 (2026-10-19)\" (required)")
	previewCmd.Flags().Bool("watch", false, "Print the entry again whenever the fragments change")
	_ = previewCmd.MarkFlagRequired("header")
	rootCmd.AddCommand(previewCmd)
}
