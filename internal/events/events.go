package events

import (
	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/tag"
)

const (
	NameEquip   = "tag.equip"
	NameUnequip = "tag.unequip"
)

type Event interface {
	Name() string
}

type Cancellable interface {
	Event
	Cancelled() bool
	SetCancelled(bool)
}

type cancelFlag struct {
	cancelled bool
}

func (c *cancelFlag) Cancelled() bool     { return c.cancelled }
func (c *cancelFlag) SetCancelled(v bool) { c.cancelled = v }

// EquipEvent announces that a viewer is about to make Tag their active tag.
type EquipEvent struct {
	cancelFlag
	Viewer uuid.UUID
	Tag    tag.Tag
}

func NewEquipEvent(viewer uuid.UUID, t tag.Tag) *EquipEvent {
	return &EquipEvent{Viewer: viewer, Tag: t}
}

func (*EquipEvent) Name() string { return NameEquip }

// UnequipEvent announces that a viewer is about to clear their active tag.
type UnequipEvent struct {
	cancelFlag
	Viewer uuid.UUID
}

func NewUnequipEvent(viewer uuid.UUID) *UnequipEvent {
	return &UnequipEvent{Viewer: viewer}
}

func (*UnequipEvent) Name() string { return NameUnequip }
