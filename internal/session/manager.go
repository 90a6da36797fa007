package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/catalog"
	"github.com/glabrego/tagdeck/internal/config"
	"github.com/glabrego/tagdeck/internal/refresh"
	"github.com/glabrego/tagdeck/internal/selection"
	"github.com/glabrego/tagdeck/internal/tag"
)

type Assembler interface {
	Assemble(ctx context.Context, viewer uuid.UUID, keyword string, opts catalog.Options) ([]tag.Tag, error)
}

type FavoritesLister interface {
	Favorites(ctx context.Context, viewer uuid.UUID) ([]string, error)
}

type ActiveReader interface {
	ActiveTag(ctx context.Context, viewer uuid.UUID) (string, error)
}

type PermissionGate interface {
	HasPermission(ctx context.Context, viewer uuid.UUID, permission string) bool
}

type Controller interface {
	SetActive(ctx context.Context, viewer uuid.UUID, t tag.Tag) (selection.Outcome, error)
	ClearActive(ctx context.Context, viewer uuid.UUID) (selection.Outcome, error)
	ToggleFavorite(ctx context.Context, viewer uuid.UUID, t tag.Tag) (bool, selection.Outcome, error)
}

type Deps struct {
	Assembler  Assembler
	Favorites  FavoritesLister
	Active     ActiveReader
	Gate       PermissionGate
	Controller Controller
}

// Manager opens view sessions and keeps at most one per viewer.
type Manager struct {
	deps   Deps
	menu   config.Menu
	tick   time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(deps Deps, menu config.Menu, tick time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		deps:     deps,
		menu:     menu,
		tick:     tick,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (m *Manager) Menu() config.Menu { return m.menu }

// Open assembles the viewer's catalog, renders the first page and, when
// the live refresh is enabled, starts it. A session the viewer already had
// open is closed.
func (m *Manager) Open(ctx context.Context, viewer uuid.UUID, keyword string, renderer Renderer) (*Session, error) {
	return m.open(ctx, viewer, keyword, false, renderer)
}

// OpenFavorites opens a favorites-only view for the viewer.
func (m *Manager) OpenFavorites(ctx context.Context, viewer uuid.UUID, keyword string, renderer Renderer) (*Session, error) {
	if !m.menu.EnableFavoritesView {
		return nil, ErrFavoritesViewDisabled
	}
	return m.open(ctx, viewer, keyword, true, renderer)
}

func (m *Manager) open(ctx context.Context, viewer uuid.UUID, keyword string, favoritesView bool, renderer Renderer) (*Session, error) {
	s := &Session{
		mgr:           m,
		viewer:        viewer,
		keyword:       keyword,
		favoritesView: favoritesView,
		renderer:      renderer,
		logger:        m.logger.With("viewer", viewer),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.mu.Lock()
	err := s.assembleLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		s.cancel()
		return nil, fmt.Errorf("open session: %w", err)
	}

	m.mu.Lock()
	prev := m.sessions[viewer]
	m.sessions[viewer] = s
	m.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s, nil
	}
	s.renderLocked()
	if interval := m.menu.RefreshInterval(m.tick); interval > 0 {
		s.scheduler = refresh.New(interval, s.logger)
		s.scheduler.Start(s.refreshTick)
	}
	s.logger.Debug("session opened", "keyword", keyword, "favorites", favoritesView, "items", s.pager.Len())
	return s, nil
}

func (m *Manager) release(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.viewer] == s {
		delete(m.sessions, s.viewer)
	}
}

// Get returns the viewer's open session, if any.
func (m *Manager) Get(viewer uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[viewer]
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
}
