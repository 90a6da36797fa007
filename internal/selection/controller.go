package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/events"
	"github.com/glabrego/tagdeck/internal/tag"
)

// Message keys handed to the Notifier. Placeholder values that start with
// "@" name another message key.
const (
	KeySetChanged      = "command-set-changed"
	KeyCleared         = "command-clear-cleared"
	KeyFavoriteToggled = "command-favorite-toggled"
	KeyFavoriteOn      = "command-favorite-on"
	KeyFavoriteOff     = "command-favorite-off"
)

type ActiveStore interface {
	SetActive(ctx context.Context, viewer uuid.UUID, tagID string) error
	ClearActive(ctx context.Context, viewer uuid.UUID) error
}

type FavoritesStore interface {
	IsFavorite(ctx context.Context, viewer uuid.UUID, tagID string) (bool, error)
	AddFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error
	RemoveFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error
}

type PermissionGate interface {
	HasPermission(ctx context.Context, viewer uuid.UUID, permission string) bool
}

type Emitter interface {
	EmitCancellable(ctx context.Context, ev events.Cancellable) bool
}

type Notifier interface {
	Notify(viewer uuid.UUID, key string, placeholders map[string]string)
}

type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeCancelled
	OutcomeDenied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeDenied:
		return "denied"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Controller applies active-tag and favorite changes for viewers.
type Controller struct {
	active    ActiveStore
	favorites FavoritesStore
	gate      PermissionGate
	bus       Emitter
	notifier  Notifier
	logger    *slog.Logger

	// toggles serializes read-modify-write of one viewer's favorites.
	toggles sync.Map
}

func NewController(active ActiveStore, favorites FavoritesStore, gate PermissionGate, bus Emitter, notifier Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		active:    active,
		favorites: favorites,
		gate:      gate,
		bus:       bus,
		notifier:  notifier,
		logger:    logger,
	}
}

// SetActive makes t the viewer's active tag unless the viewer lacks its
// permission (OutcomeDenied) or an observer vetoes the equip event
// (OutcomeCancelled). Neither case touches storage or notifies.
func (c *Controller) SetActive(ctx context.Context, viewer uuid.UUID, t tag.Tag) (Outcome, error) {
	if !c.gate.HasPermission(ctx, viewer, t.Permission) {
		return OutcomeDenied, nil
	}
	if c.bus.EmitCancellable(ctx, events.NewEquipEvent(viewer, t)) {
		return OutcomeCancelled, nil
	}
	if err := c.active.SetActive(ctx, viewer, t.ID); err != nil {
		return OutcomeApplied, fmt.Errorf("set active tag %s: %w", t.ID, err)
	}
	c.logger.Debug("active tag set", "viewer", viewer, "tag", t.ID)
	c.notifier.Notify(viewer, KeySetChanged, map[string]string{"tag": t.Label(0)})
	return OutcomeApplied, nil
}

func (c *Controller) ClearActive(ctx context.Context, viewer uuid.UUID) (Outcome, error) {
	if c.bus.EmitCancellable(ctx, events.NewUnequipEvent(viewer)) {
		return OutcomeCancelled, nil
	}
	if err := c.active.ClearActive(ctx, viewer); err != nil {
		return OutcomeApplied, fmt.Errorf("clear active tag: %w", err)
	}
	c.logger.Debug("active tag cleared", "viewer", viewer)
	c.notifier.Notify(viewer, KeyCleared, nil)
	return OutcomeApplied, nil
}

// ToggleFavorite flips favorite membership and reports the new state. It is
// not cancellable.
func (c *Controller) ToggleFavorite(ctx context.Context, viewer uuid.UUID, t tag.Tag) (bool, Outcome, error) {
	if !c.gate.HasPermission(ctx, viewer, t.Permission) {
		return false, OutcomeDenied, nil
	}

	mu := c.viewerLock(viewer)
	mu.Lock()
	defer mu.Unlock()

	was, err := c.favorites.IsFavorite(ctx, viewer, t.ID)
	if err != nil {
		return false, OutcomeApplied, fmt.Errorf("read favorite %s: %w", t.ID, err)
	}
	if was {
		err = c.favorites.RemoveFavorite(ctx, viewer, t.ID)
	} else {
		err = c.favorites.AddFavorite(ctx, viewer, t.ID)
	}
	if err != nil {
		return was, OutcomeApplied, fmt.Errorf("save favorite %s: %w", t.ID, err)
	}

	now := !was
	toggled := "@" + KeyFavoriteOff
	if now {
		toggled = "@" + KeyFavoriteOn
	}
	c.notifier.Notify(viewer, KeyFavoriteToggled, map[string]string{
		"tag":     t.Label(0),
		"toggled": toggled,
	})
	return now, OutcomeApplied, nil
}

func (c *Controller) viewerLock(viewer uuid.UUID) *sync.Mutex {
	mu, _ := c.toggles.LoadOrStore(viewer, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
