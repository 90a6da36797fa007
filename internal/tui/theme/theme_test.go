package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestStyleTagLabel_ByState(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	plain := th.StyleTagLabel("", false, "VIP")
	if !strings.Contains(plain, "\x1b[") || !strings.Contains(plain, "VIP") {
		t.Fatalf("expected styled label, got %q", plain)
	}

	colored := th.StyleTagLabel("#ff0000", false, "VIP")
	if !strings.Contains(colored, "\x1b[") {
		t.Fatalf("expected colored label, got %q", colored)
	}

	locked := th.StyleTagLabel("#ff0000", true, "VIP")
	if locked == colored {
		t.Fatalf("expected locked label to differ from colored label, got %q", locked)
	}

	if got := th.StyleTagLabel("#ff0000", false, ""); got != "" {
		t.Fatalf("expected empty label to stay empty, got %q", got)
	}
}

func TestRenderActiveLine(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	if got := th.RenderActiveLine(false, "line"); got != "line" {
		t.Fatalf("expected inactive line untouched, got %q", got)
	}
	if got := th.RenderActiveLine(true, "line"); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected active line styled, got %q", got)
	}
}
