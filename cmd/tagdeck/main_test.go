package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/locale"
	"github.com/glabrego/tagdeck/internal/selection"
	"github.com/glabrego/tagdeck/internal/session"
	"github.com/glabrego/tagdeck/internal/tag"
)

func testDeps(t *testing.T) *deps {
	t.Helper()
	msgs, err := locale.Load(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("locale.Load returned error: %v", err)
	}
	return &deps{messages: msgs, notifier: msgs.Notifier("en", nil)}
}

func TestNoticeFeed_KeepsLastAndNeverBlocks(t *testing.T) {
	feed := newNoticeFeed()
	for i := 0; i < cap(feed.ch)+3; i++ {
		feed.sink(uuid.Nil, "notice")
	}
	feed.sink(uuid.Nil, "last")
	if got := feed.lastNotice(); got != "last" {
		t.Fatalf("expected last notice, got %q", got)
	}
	if len(feed.ch) != cap(feed.ch) {
		t.Fatalf("expected full channel, got %d", len(feed.ch))
	}
}

func TestPrintFrame(t *testing.T) {
	d := testDeps(t)
	var out bytes.Buffer
	err := printFrame(&out, d, session.Frame{
		Title: "Tags 1/1",
		Total: 2,
		Items: []session.Item{
			{Tag: tag.Tag{ID: "vip"}, Label: "[VIP]", Favorite: true, Active: true},
			{Tag: tag.Tag{ID: "mvp"}, Label: "[MVP]", Locked: true},
		},
	})
	if err != nil {
		t.Fatalf("printFrame returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", out.String())
	}
	if lines[0] != "Tags 1/1" {
		t.Fatalf("unexpected title line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "★● vip") || !strings.HasSuffix(lines[1], "[VIP]") {
		t.Fatalf("unexpected first tag line: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "[MVP] [locked]") {
		t.Fatalf("unexpected locked line: %q", lines[2])
	}
	if lines[3] != "2 tags" {
		t.Fatalf("unexpected footer: %q", lines[3])
	}
}

func TestPrintFrame_Empty(t *testing.T) {
	d := testDeps(t)
	var out bytes.Buffer
	if err := printFrame(&out, d, session.Frame{Title: "Tags 1/1"}); err != nil {
		t.Fatalf("printFrame returned error: %v", err)
	}
	if !strings.Contains(out.String(), "No tags to show.") {
		t.Fatalf("expected empty message, got %q", out.String())
	}
}

func TestReportOutcome(t *testing.T) {
	d := testDeps(t)
	var out bytes.Buffer
	_ = reportOutcome(&out, d, selection.OutcomeDenied, "[VIP]")
	_ = reportOutcome(&out, d, selection.OutcomeCancelled, "[VIP]")
	_ = reportOutcome(&out, d, selection.OutcomeApplied, "[VIP]")
	want := "You do not have permission to use [VIP].\nThat change was blocked.\n"
	if out.String() != want {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
