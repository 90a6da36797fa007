package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/tagdeck/internal/tui/theme"
)

func Header(title string, favorites bool, th tuitheme.Theme) string {
	mode := "all"
	if favorites {
		mode = "favorites"
	}
	return th.Title.Render(title) + " " + th.ModePill.Render(mode)
}

func SearchLine(prompt, input string, th tuitheme.Theme) string {
	return th.MetaLabel.Render(prompt) + input
}

func Footer(page, pages, total int, keyword, active string, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d/%d", page+1, max(pages, 1))),
		th.MetaValue.Render(fmt.Sprintf("%d tags", total)),
	}
	if keyword != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.Keyword.Render(fmt.Sprintf("%q", keyword)))
	}
	if active != "" {
		parts = append(parts, th.MetaValue.Render(active))
	}
	return strings.Join(parts, " • ")
}

func StatusLine(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
