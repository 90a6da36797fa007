package view

import (
	"strings"

	"github.com/glabrego/tagdeck/internal/session"
)

type ListRenderInput struct {
	Items  []session.Item
	Start  int
	End    int
	Cursor int

	RenderLine func(item session.Item, pos int, cursor bool) string
}

func RenderListBody(in ListRenderInput) string {
	if len(in.Items) == 0 || in.Start >= in.End || in.Start < 0 {
		return ""
	}
	end := min(in.End, len(in.Items))
	var b strings.Builder
	for i := in.Start; i < end; i++ {
		b.WriteString(in.RenderLine(in.Items[i], i, i == in.Cursor))
		b.WriteString("\n")
	}
	return b.String()
}
