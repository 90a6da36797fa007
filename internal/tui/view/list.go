package view

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/glabrego/tagdeck/internal/session"
	tuitheme "github.com/glabrego/tagdeck/internal/tui/theme"
)

type TagLineParams struct {
	Item        session.Item
	Cursor      bool
	ShowNumbers bool
	Pos         int
	LockedLabel string
	Width       int
}

// RenderTagLine draws one slot: cursor, favorite and active markers, the
// label, and the tag name right-aligned.
func RenderTagLine(p TagLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Cursor {
		cursorMarker = ">"
	}
	favMarker := " "
	if p.Item.Favorite {
		favMarker = th.Favorite.Render("★")
	}
	activeMarker := " "
	if p.Item.Active {
		activeMarker = th.Active.Render("●")
	}

	prefix := fmt.Sprintf("  %s%s%s ", cursorMarker, favMarker, activeMarker)
	if p.ShowNumbers {
		prefix = fmt.Sprintf("  %s%s%s%2d. ", cursorMarker, favMarker, activeMarker, p.Pos+1)
	}

	right := strings.TrimSpace(p.Item.Tag.Name)
	if p.Item.Locked && p.LockedLabel != "" {
		right = "[" + p.LockedLabel + "] " + right
	}
	right = th.MetaLabel.Render(right)

	available := p.Width - visibleLen(prefix) - 1 - visibleLen(right)
	if available < 1 {
		available = 1
	}
	label := truncateText(strings.TrimSpace(p.Item.Label), available)
	styled := th.StyleTagLabel(p.Item.Tag.Style.Color, p.Item.Locked, label)

	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Cursor, prefix+styled+strings.Repeat(" ", gap)+right)
}

func truncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if visibleLen(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	return truncate.StringWithTail(s, uint(maxLen), "...")
}

func visibleLen(s string) int {
	return ansi.PrintableRuneWidth(s)
}
