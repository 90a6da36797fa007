package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/app"
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

type favoritesStore interface {
	IsFavorite(ctx context.Context, viewer uuid.UUID, tagID string) (bool, error)
	AddFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error
	RemoveFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error
	Favorites(ctx context.Context, viewer uuid.UUID) ([]string, error)
}

// deps is everything a command needs, built once from the environment.
type deps struct {
	cfg        config.Config
	menu       config.Menu
	viewer     uuid.UUID
	logger     *slog.Logger
	logFile    *os.File
	repo       *storage.Repository
	redis      *storage.RedisFavorites
	catalog    *tag.Catalog
	service    *app.Service
	messages   *locale.Messages
	notifier   *locale.Notifier
	controller *selection.Controller
	sessions   *session.Manager
}

func setup(ctx context.Context, viewerFlag string, sink locale.Sink) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if viewerFlag != "" {
		cfg.Viewer = viewerFlag
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	d := &deps{cfg: cfg, viewer: cfg.ViewerID()}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	d.logFile = logFile
	d.logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := d.build(ctx, sink); err != nil {
		d.close()
		return nil, err
	}
	return d, nil
}

func (d *deps) build(ctx context.Context, sink locale.Sink) error {
	menu, err := config.LoadMenu(d.cfg.MenuPath, d.logger)
	if err != nil {
		return err
	}
	d.menu = menu

	d.repo, err = storage.NewRepository(d.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}
	if err := d.repo.Init(ctx); err != nil {
		return fmt.Errorf("storage schema error: %w", err)
	}

	var favorites favoritesStore = d.repo
	if d.cfg.UseRedisFavorites() {
		d.redis, err = storage.NewRedisFavorites(d.cfg.RedisURL, d.cfg.RedisPrefix)
		if err != nil {
			return fmt.Errorf("redis favorites: %w", err)
		}
		favorites = d.redis
	}

	d.catalog, err = tag.LoadCatalogFile(d.cfg.CatalogPath)
	if err != nil {
		return err
	}

	gate := permission.NewGate(d.repo, d.logger)
	d.service = app.NewService(d.catalog, gate, d.repo, d.logger)

	d.messages, err = locale.Load(d.logger)
	if err != nil {
		return err
	}
	d.notifier = d.messages.Notifier(d.cfg.Locale, sink)

	bus := events.NewBus(d.logger)
	bus.Subscribe(events.NameEquip, "audit", 1000, events.ObserverFunc(auditEvent(d.logger)))
	bus.Subscribe(events.NameUnequip, "audit", 1000, events.ObserverFunc(auditEvent(d.logger)))

	d.controller = selection.NewController(d.repo, favorites, gate, bus, d.notifier, d.logger)
	assembler := catalog.NewAssembler(d.catalog, d.service, favorites, gate)
	d.sessions = session.NewManager(session.Deps{
		Assembler:  assembler,
		Favorites:  favorites,
		Active:     d.repo,
		Gate:       gate,
		Controller: d.controller,
	}, d.menu, d.cfg.Tick, d.logger)

	d.logger.Info("tagdeck ready",
		"tags", d.catalog.Len(),
		"viewer", d.viewer,
		"redis_favorites", d.cfg.UseRedisFavorites(),
		"sort", d.menu.Sort,
	)
	return nil
}

func auditEvent(logger *slog.Logger) func(ctx context.Context, ev events.Event) {
	return func(_ context.Context, ev events.Event) {
		switch e := ev.(type) {
		case *events.EquipEvent:
			logger.Info("equip", "viewer", e.Viewer, "tag", e.Tag.ID, "cancelled", e.Cancelled())
		case *events.UnequipEvent:
			logger.Info("unequip", "viewer", e.Viewer, "cancelled", e.Cancelled())
		}
	}
}

func (d *deps) close() {
	if d.sessions != nil {
		d.sessions.CloseAll()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.repo != nil {
		_ = d.repo.Close()
	}
	if d.logFile != nil {
		_ = d.logFile.Close()
	}
}
