package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

func TestColorProfile_DetectedOnStderr(t *testing.T) {
	// The selection goes to stdout, often a pipe; colors follow the UI stream.
	if uiOutput != os.Stderr {
		t.Errorf("profile should be detected on stderr, got %T", uiOutput)
	}
}

func TestDetectProfile_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := DetectProfile(&buf, []string{"TERM=xterm-256color"}); got >= colorprofile.ANSI256 {
		t.Errorf("a pipe should not report 256 colors, got %v", got)
	}
}

func TestThemeFg_ANSI256(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.ANSI256
	if got := ThemeFg("#F1FA8C"); got != lipgloss.Color("#F1FA8C") {
		t.Errorf("ThemeFg = %v, want the hex color", got)
	}
}

func TestThemeFg_ANSI(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.ANSI
	if got := ThemeFg("#F1FA8C"); got != lipgloss.ANSIColor(7) {
		t.Errorf("ThemeFg = %v, want ANSI 7", got)
	}
}
