package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/catalog"
	"github.com/glabrego/tagdeck/internal/paging"
	"github.com/glabrego/tagdeck/internal/refresh"
	"github.com/glabrego/tagdeck/internal/selection"
	"github.com/glabrego/tagdeck/internal/tag"
)

var (
	ErrClosed                = errors.New("session closed")
	ErrFavoritesViewDisabled = errors.New("favorites view is disabled")
)

// Item is one rendered slot.
type Item struct {
	Tag      tag.Tag
	Label    string
	Favorite bool
	Active   bool
	// Locked marks preview-only tags the viewer may not use.
	Locked bool
}

// Frame is a snapshot of a session's visible state.
type Frame struct {
	Viewer    uuid.UUID
	Title     string
	Keyword   string
	Page      int
	PageCount int
	Total     int
	Items     []Item
	Active    string
	Favorites bool
	Tick      int
	Closed    bool
}

type Renderer interface {
	Render(f Frame)
}

type RendererFunc func(f Frame)

func (fn RendererFunc) Render(f Frame) { fn(f) }

// Session is one viewer's open catalog view. Page navigation, selection and
// the live refresh all go through mu.
type Session struct {
	mgr           *Manager
	viewer        uuid.UUID
	keyword       string
	favoritesView bool
	renderer      Renderer
	logger        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	pager     *paging.Paginator[tag.Tag]
	favorites map[string]struct{}
	locked    map[string]struct{}
	active    string
	tick      int

	scheduler *refresh.Scheduler
	closeOnce sync.Once
}

func (s *Session) Viewer() uuid.UUID { return s.viewer }
func (s *Session) Keyword() string   { return s.keyword }

// FavoritesView reports whether the session lists only favorites.
func (s *Session) FavoritesView() bool { return s.favoritesView }

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Frame returns the current snapshot without re-rendering.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Session) options() catalog.Options {
	opts := s.mgr.menu.Options()
	if s.favoritesView {
		opts.FavoritesOnly = true
		opts.IncludeUnentitled = false
	}
	return opts
}

// assembleLocked rebuilds the list and the per-viewer marks. On error the
// previous state is kept.
func (s *Session) assembleLocked(ctx context.Context) error {
	opts := s.options()
	items, err := s.mgr.deps.Assembler.Assemble(ctx, s.viewer, s.keyword, opts)
	if err != nil {
		return err
	}
	favIDs, err := s.mgr.deps.Favorites.Favorites(ctx, s.viewer)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	active, err := s.mgr.deps.Active.ActiveTag(ctx, s.viewer)
	if err != nil {
		return fmt.Errorf("load active tag: %w", err)
	}

	favorites := make(map[string]struct{}, len(favIDs))
	for _, id := range favIDs {
		favorites[id] = struct{}{}
	}
	locked := make(map[string]struct{})
	if opts.IncludeUnentitled {
		for _, t := range items {
			if !s.mgr.deps.Gate.HasPermission(ctx, s.viewer, t.Permission) {
				locked[t.ID] = struct{}{}
			}
		}
	}

	if s.pager == nil {
		s.pager = paging.New(s.mgr.menu.PageCapacity, items)
	} else {
		s.pager.Reset(items)
	}
	s.favorites = favorites
	s.locked = locked
	s.active = active
	return nil
}

func (s *Session) frameLocked() Frame {
	f := Frame{
		Viewer:    s.viewer,
		Keyword:   s.keyword,
		Active:    s.active,
		Favorites: s.favoritesView,
		Tick:      s.tick,
		Closed:    s.closed,
	}
	if s.pager == nil {
		f.PageCount = 1
		return f
	}
	f.Page = s.pager.Page()
	f.PageCount = s.pager.PageCount()
	f.Total = s.pager.Len()

	title := s.mgr.menu.Name
	if s.favoritesView {
		title = s.mgr.menu.FavoritesName
	}
	f.Title = formatTitle(title, f.Page, f.PageCount)

	page := s.pager.Items()
	f.Items = make([]Item, 0, len(page))
	for _, t := range page {
		_, fav := s.favorites[t.ID]
		_, locked := s.locked[t.ID]
		f.Items = append(f.Items, Item{
			Tag:      t,
			Label:    t.Label(s.tick),
			Favorite: fav,
			Active:   t.ID == s.active,
			Locked:   locked,
		})
	}
	return f
}

func formatTitle(title string, page, pages int) string {
	return strings.NewReplacer(
		"%page%", strconv.Itoa(page+1),
		"%total%", strconv.Itoa(pages),
	).Replace(title)
}

func (s *Session) renderLocked() {
	if s.renderer != nil {
		s.renderer.Render(s.frameLocked())
	}
}

// refreshTick is the scheduler job. It reports false once the session is
// gone so the scheduler cancels itself.
func (s *Session) refreshTick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.tick++
	if err := s.assembleLocked(s.ctx); err != nil {
		if s.ctx.Err() != nil {
			return false
		}
		s.logger.Warn("refresh failed, keeping previous frame", "error", err)
		return true
	}
	s.renderLocked()
	return true
}

// NextPage moves forward one page and reports whether the page changed.
func (s *Session) NextPage() (bool, error) {
	return s.navigate(func(p *paging.Paginator[tag.Tag]) bool { return p.Next() })
}

func (s *Session) PreviousPage() (bool, error) {
	return s.navigate(func(p *paging.Paginator[tag.Tag]) bool { return p.Previous() })
}

func (s *Session) navigate(move func(*paging.Paginator[tag.Tag]) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	if !move(s.pager) {
		return false, nil
	}
	s.renderLocked()
	return true, nil
}

func (s *Session) lookup(tagID string) (tag.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return tag.Tag{}, ErrClosed
	}
	for _, t := range s.pager.All() {
		if t.ID == tagID {
			return t, nil
		}
	}
	return tag.Tag{}, fmt.Errorf("%w: %s", tag.ErrUnknownTag, tagID)
}

// Select makes tagID the viewer's active tag. An applied selection closes
// the session; a denied or cancelled one leaves it open.
func (s *Session) Select(ctx context.Context, tagID string) (selection.Outcome, error) {
	t, err := s.lookup(tagID)
	if err != nil {
		return selection.OutcomeDenied, err
	}
	outcome, err := s.mgr.deps.Controller.SetActive(ctx, s.viewer, t)
	if err != nil || outcome != selection.OutcomeApplied {
		return outcome, err
	}
	s.Close()
	return outcome, nil
}

// ClearActive clears the viewer's active tag and closes the session when
// applied. It is denied when clearing is disabled.
func (s *Session) ClearActive(ctx context.Context) (selection.Outcome, error) {
	if s.Closed() {
		return selection.OutcomeDenied, ErrClosed
	}
	if !s.mgr.menu.EnableClear {
		return selection.OutcomeDenied, nil
	}
	outcome, err := s.mgr.deps.Controller.ClearActive(ctx, s.viewer)
	if err != nil || outcome != selection.OutcomeApplied {
		return outcome, err
	}
	s.Close()
	return outcome, nil
}

// ToggleFavorite flips tagID's favorite mark and re-renders the reassembled
// list at the current page, re-clamped.
func (s *Session) ToggleFavorite(ctx context.Context, tagID string) (bool, selection.Outcome, error) {
	t, err := s.lookup(tagID)
	if err != nil {
		return false, selection.OutcomeDenied, err
	}
	now, outcome, err := s.mgr.deps.Controller.ToggleFavorite(ctx, s.viewer, t)
	if err != nil || outcome != selection.OutcomeApplied {
		return now, outcome, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return now, outcome, nil
	}
	if err := s.assembleLocked(ctx); err != nil {
		return now, outcome, fmt.Errorf("reassemble after toggle: %w", err)
	}
	s.renderLocked()
	return now, outcome, nil
}

// OpenFavorites replaces this session with a favorites-only view of the
// same viewer and keyword.
func (s *Session) OpenFavorites(ctx context.Context, renderer Renderer) (*Session, error) {
	if s.Closed() {
		return nil, ErrClosed
	}
	if renderer == nil {
		renderer = s.renderer
	}
	return s.mgr.OpenFavorites(ctx, s.viewer, s.keyword, renderer)
}

// Close ends the session and its refresh. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.cancel()
		s.renderLocked()
		scheduler := s.scheduler
		s.mu.Unlock()

		if scheduler != nil {
			scheduler.Stop()
		}
		s.mgr.release(s)
		s.logger.Debug("session closed")
	})
}
