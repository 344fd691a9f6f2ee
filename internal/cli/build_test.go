package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/ariel-frischer/newsbuilder/internal/command"
	clierrors "github.com/ariel-frischer/newsbuilder/internal/errors"
	"github.com/ariel-frischer/newsbuilder/internal/fragment"
	"github.com/ariel-frischer/newsbuilder/internal/news"
	"github.com/ariel-frischer/newsbuilder/internal/release"
	"github.com/ariel-frischer/newsbuilder/internal/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	status := 128
	_, atoiErr := strconv.Atoi("abc")

	tests := map[string]struct {
		err          error
		wantCategory clierrors.ErrorCategory
		wantMessage  string
	}{
		"not a working directory": {
			err:          &vcs.NotWorkingDirectoryError{Path: "/repo", Err: errors.New("repository does not exist")},
			wantCategory: clierrors.Prerequisite,
			wantMessage:  "/repo is not a git working directory",
		},
		"missing version file": {
			err:          &release.VersionError{Project: "/repo/conch", Err: os.ErrNotExist},
			wantCategory: clierrors.Prerequisite,
			wantMessage:  "no readable _version.py in /repo/conch",
		},
		"bad fragment name": {
			err:          fmt.Errorf("building NEWS: %w", &fragment.TicketError{Path: "topfiles/abc.bugfix", Stem: "abc", Err: atoiErr}),
			wantCategory: clierrors.Runtime,
		},
		"vcs tool failed": {
			err:          &command.FailedError{Args: []string{"git", "rm", "1.feature"}, ExitStatus: &status},
			wantCategory: clierrors.Runtime,
		},
		"no remover": {
			err:          fmt.Errorf("releasing: %w", news.ErrNoRemover),
			wantCategory: clierrors.Prerequisite,
			wantMessage:  "releasing: no fragment remover configured",
		},
		"no builder": {
			err:          release.ErrNoBuilder,
			wantCategory: clierrors.Prerequisite,
			wantMessage:  "no news builder configured",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := classifyError("/repo", tt.err)
			cliErr := clierrors.AsCLIError(got)
			require.NotNil(t, cliErr, "%v should be classified", tt.err)
			assert.Equal(t, tt.wantCategory, cliErr.Category)
			assert.NotEmpty(t, cliErr.Remediation)
			assert.ErrorIs(t, got, tt.err)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, cliErr.Message)
			}
		})
	}
}

func TestClassifyError_Unknown(t *testing.T) {
	err := errors.New("disk full")
	assert.Same(t, err, classifyError("/repo", err))
}
