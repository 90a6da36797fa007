package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Keyword    lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	TagDefault lipgloss.Style
	TagLocked  lipgloss.Style
	Favorite   lipgloss.Style
	Active     lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Keyword:    lipgloss.NewStyle().Foreground(cpTeal),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),
		TagDefault: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TagLocked:  lipgloss.NewStyle().Faint(true).Foreground(cpOverlay0),
		Favorite:   lipgloss.NewStyle().Foreground(cpYellow),
		Active:     lipgloss.NewStyle().Foreground(cpGreen).Bold(true),
	}
}

// StyleTagLabel colors a tag label with the tag's own color when it has one.
// Locked tags are always dimmed.
func (t Theme) StyleTagLabel(color string, locked bool, label string) string {
	if label == "" {
		return label
	}
	if locked {
		return t.TagLocked.Render(label)
	}
	if color = strings.TrimSpace(color); color != "" {
		return t.TagDefault.Foreground(lipgloss.Color(color)).Render(label)
	}
	return t.TagDefault.Render(label)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
