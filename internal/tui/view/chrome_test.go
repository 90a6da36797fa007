package view

import (
	"regexp"
	"strings"
	"testing"

	tuitheme "github.com/glabrego/tagdeck/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func TestHeader(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(Header("Tags 1/2", false, th)); !strings.Contains(got, "Tags 1/2") || !strings.Contains(got, "all") {
		t.Fatalf("unexpected header: %q", got)
	}
	if got := stripANSI(Header("Favorite Tags | 1/1", true, th)); !strings.Contains(got, "favorites") {
		t.Fatalf("unexpected favorites header: %q", got)
	}
}

func TestFooter(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(Footer(1, 3, 42, "vip", "active: VIP", th))
	for _, want := range []string{"page 2/3", "42 tags", `search "vip"`, "active: VIP"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in footer, got %q", want, got)
		}
	}
	if got := stripANSI(Footer(0, 0, 0, "", "", th)); !strings.Contains(got, "page 1/1") || strings.Contains(got, "search") {
		t.Fatalf("unexpected empty footer: %q", got)
	}
}

func TestStatusLine(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(StatusLine(false, false, "", "", th)); !strings.Contains(got, "state: idle | Ready") {
		t.Fatalf("unexpected idle status: %q", got)
	}
	if got := stripANSI(StatusLine(true, false, "", "", th)); !strings.Contains(got, "state: loading") {
		t.Fatalf("unexpected loading status: %q", got)
	}
	if got := stripANSI(StatusLine(false, true, "", "boom", th)); !strings.Contains(got, "state: warning | boom") {
		t.Fatalf("unexpected warning status: %q", got)
	}
}

func TestSearchLine(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(SearchLine("search: ", "vi", th)); got != "search: vi" {
		t.Fatalf("unexpected search line: %q", got)
	}
}
