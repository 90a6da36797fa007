package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/catalog"
	"github.com/glabrego/tagdeck/internal/config"
	"github.com/glabrego/tagdeck/internal/events"
	"github.com/glabrego/tagdeck/internal/locale"
	"github.com/glabrego/tagdeck/internal/permission"
	"github.com/glabrego/tagdeck/internal/selection"
	"github.com/glabrego/tagdeck/internal/session"
	"github.com/glabrego/tagdeck/internal/storage"
	"github.com/glabrego/tagdeck/internal/tag"
)

type frameLog struct {
	mu     sync.Mutex
	frames []session.Frame
}

func (l *frameLog) Render(f session.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, f)
}

func (l *frameLog) last() session.Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames[len(l.frames)-1]
}

func itemIDs(f session.Frame) []string {
	ids := make([]string, 0, len(f.Items))
	for _, item := range f.Items {
		ids = append(ids, item.Tag.ID)
	}
	return ids
}

func TestIntegration_SessionOverSQLite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	viewer := uuid.New()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "tagdeck-integration.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	cat, err := tag.NewCatalog([]tag.Tag{
		{ID: "alpha", Display: "[A]", Permission: "tags.alpha"},
		{ID: "delta", Display: "[D]", Permission: "staff.delta"},
		{ID: "beta", Display: "[B]", Permission: "tags.beta"},
		{ID: "gamma", Display: "[G]"},
	})
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}

	gate := permission.NewGate(repo, logger)
	svc := NewService(cat, gate, repo, logger)
	if err := svc.Grant(ctx, viewer, "tags.*"); err != nil {
		t.Fatalf("Grant returned error: %v", err)
	}

	msgs, err := locale.Load(logger)
	if err != nil {
		t.Fatalf("locale.Load returned error: %v", err)
	}
	var notices []string
	notifier := msgs.Notifier("en", func(_ uuid.UUID, text string) { notices = append(notices, text) })

	bus := events.NewBus(logger)
	bus.Subscribe(events.NameEquip, "no-beta", 0, events.ObserverFunc(func(_ context.Context, ev events.Event) {
		if e, ok := ev.(*events.EquipEvent); ok && e.Tag.ID == "beta" {
			e.SetCancelled(true)
		}
	}))

	controller := selection.NewController(repo, repo, gate, bus, notifier, logger)
	menu := config.DefaultMenu()
	menu.PageCapacity = 2
	menu.AddAllTags = true
	menu.Name = "Tags %page%/%total%"
	mgr := session.NewManager(session.Deps{
		Assembler:  catalog.NewAssembler(cat, svc, repo, gate),
		Favorites:  repo,
		Active:     repo,
		Gate:       gate,
		Controller: controller,
	}, menu, 10*time.Millisecond, logger)

	frames := &frameLog{}
	s, err := mgr.Open(ctx, viewer, "", frames)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	first := frames.last()
	if first.Title != "Tags 1/2" {
		t.Fatalf("unexpected title: %q", first.Title)
	}
	if got := itemIDs(first); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Fatalf("unexpected first page: %v", got)
	}

	if moved, err := s.NextPage(); err != nil || !moved {
		t.Fatalf("NextPage = %v, %v", moved, err)
	}
	second := frames.last()
	if got := itemIDs(second); !reflect.DeepEqual(got, []string{"gamma", "delta"}) {
		t.Fatalf("unexpected second page: %v", got)
	}
	if !second.Items[1].Locked || second.Items[0].Locked {
		t.Fatalf("expected only delta locked, got %+v", second.Items)
	}

	now, outcome, err := s.ToggleFavorite(ctx, "gamma")
	if err != nil || outcome != selection.OutcomeApplied || !now {
		t.Fatalf("ToggleFavorite = %v, %v, %v", now, outcome, err)
	}
	if got := itemIDs(frames.last()); !reflect.DeepEqual(got, []string{"beta", "delta"}) {
		t.Fatalf("expected gamma to move to the first page, got second page %v", got)
	}

	if _, outcome, _ := s.ToggleFavorite(ctx, "delta"); outcome != selection.OutcomeDenied {
		t.Fatalf("expected favorite on locked tag denied, got %v", outcome)
	}

	outcome, err = s.Select(ctx, "beta")
	if err != nil || outcome != selection.OutcomeCancelled {
		t.Fatalf("Select(beta) = %v, %v", outcome, err)
	}
	if s.Closed() {
		t.Fatal("expected cancelled select to keep the session open")
	}

	outcome, err = s.Select(ctx, "alpha")
	if err != nil || outcome != selection.OutcomeApplied {
		t.Fatalf("Select(alpha) = %v, %v", outcome, err)
	}
	if !s.Closed() || mgr.Len() != 0 {
		t.Fatalf("expected session closed and released, closed=%v open=%d", s.Closed(), mgr.Len())
	}

	active, ok, err := svc.ActiveTag(ctx, viewer)
	if err != nil || !ok || active.ID != "alpha" {
		t.Fatalf("ActiveTag = %+v, %v, %v", active, ok, err)
	}
	if len(notices) != 2 {
		t.Fatalf("expected favorite and set notices, got %v", notices)
	}
	if !strings.Contains(notices[0], "[G] has been added to your favorites.") {
		t.Fatalf("unexpected favorite notice: %q", notices[0])
	}
	if notices[1] != "[Tags] Your active tag is now [A]." {
		t.Fatalf("unexpected set notice: %q", notices[1])
	}
}
