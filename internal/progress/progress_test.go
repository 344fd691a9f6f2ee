package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode terminal": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii terminal": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
		"pipe": {
			caps: TerminalCapabilities{},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_NotAFile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TerminalCapabilities{}, DetectTerminalCapabilities(&bytes.Buffer{}))
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want string
	}{
		"silent when not a terminal": {
			caps: TerminalCapabilities{},
			want: "",
		},
		"unicode markers": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: "✓ Conch 3.4.5\n✗ Core 1.2.3\n",
		},
		"ascii markers": {
			caps: TerminalCapabilities{IsTTY: true},
			want: "[OK] Conch 3.4.5\n[FAIL] Core 1.2.3\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// A buffer never gets a spinner, only the finished-step lines.
			var buf bytes.Buffer
			d := NewDisplay(&buf, tt.caps)
			d.Start("building Conch")
			d.Succeed("Conch 3.4.5")
			d.Start("building Core")
			d.Fail("Core 1.2.3")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
