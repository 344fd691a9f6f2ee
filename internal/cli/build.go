package cli

import (
	"errors"
	"fmt"

	"github.com/ariel-frischer/newsbuilder/internal/command"
	"github.com/ariel-frischer/newsbuilder/internal/config"
	clierrors "github.com/ariel-frischer/newsbuilder/internal/errors"
	"github.com/ariel-frischer/newsbuilder/internal/fragment"
	"github.com/ariel-frischer/newsbuilder/internal/news"
	"github.com/ariel-frischer/newsbuilder/internal/progress"
	"github.com/ariel-frischer/newsbuilder/internal/release"
	"github.com/ariel-frischer/newsbuilder/internal/vcs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runBuild releases every project under repoPath.
func runBuild(cmd *cobra.Command, repoPath, version string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	remover, err := newRemover(cfg, repoPath)
	if err != nil {
		return classifyError(repoPath, err)
	}

	builder := news.NewBuilder(remover)
	builder.Width = cfg.WrapWidth
	builder.Logger = logger

	display := progress.NewDisplay(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities(cmd.ErrOrStderr()))
	driver := release.NewDriver(&progressBuilder{Builder: builder, display: display})
	driver.Strategy = release.Strategy(cfg.HeaderStrategy)
	driver.HeaderPrefix = cfg.HeaderPrefix
	driver.FixedTitle = cfg.FixedTitle
	driver.FixedFragmentsDir = cfg.FixedFragmentsDir
	driver.RequireVCS = cfg.RequireVCS
	driver.Logger = logger

	logger.Debug("starting release",
		zap.String("repository", repoPath),
		zap.String("version", version),
		zap.String("strategy", cfg.HeaderStrategy),
		zap.String("remover", cfg.Remover),
	)
	if err := driver.BuildAll(repoPath, version); err != nil {
		return classifyError(repoPath, err)
	}
	return nil
}

// progressBuilder reports each NEWS file on the terminal as it is written.
type progressBuilder struct {
	release.Builder
	display *progress.Display
}

func (p *progressBuilder) Build(fragmentsDir, newsFile, header string) error {
	p.display.Start("Writing " + newsFile)
	if err := p.Builder.Build(fragmentsDir, newsFile, header); err != nil {
		p.display.Fail(newsFile)
		return err
	}
	p.display.Succeed(fmt.Sprintf("%s: %s", newsFile, header))
	return nil
}

// newRemover returns the fragment remover selected by cfg.
func newRemover(cfg *config.Configuration, repoPath string) (news.Remover, error) {
	if cfg.Remover == config.RemoverGoGit {
		r, err := vcs.NewGitRemover(repoPath)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	r, err := vcs.NewCommandRemover(cfg.VCSTool)
	if err != nil {
		return nil, clierrors.ConfigInvalid(err)
	}
	return r, nil
}

// classifyError attaches remediation to the failures a release can hit.
func classifyError(repoPath string, err error) error {
	var (
		nwd        *vcs.NotWorkingDirectoryError
		versionErr *release.VersionError
		ticketErr  *fragment.TicketError
		failed     *command.FailedError
	)
	switch {
	case errors.As(err, &nwd):
		return clierrors.NotWorkingDirectory(repoPath, err)
	case errors.As(err, &versionErr):
		return clierrors.MissingVersionFile(versionErr.Project, err)
	case errors.As(err, &ticketErr):
		return clierrors.InvalidFragment(err)
	case errors.As(err, &failed):
		return clierrors.RemoveFailed(err)
	case errors.Is(err, news.ErrNoRemover):
		return clierrors.Wrap(err, clierrors.Prerequisite,
			"Set remover to command or go-git in .newsbuilder/config.yml")
	case errors.Is(err, release.ErrNoBuilder):
		return clierrors.Wrap(err, clierrors.Prerequisite,
			"Construct the release driver with release.NewDriver")
	}
	return err
}
