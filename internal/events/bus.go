package events

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"sync"
)

// Observer reacts to an event before the change it announces is committed.
// Observers may veto a Cancellable event by calling SetCancelled(true).
type Observer interface {
	HandleEvent(ctx context.Context, ev Event)
}

type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) HandleEvent(ctx context.Context, ev Event) { f(ctx, ev) }

type registration struct {
	name     string
	priority int
	seq      int
	observer Observer
}

// Bus dispatches events synchronously to registered observers. Observers run
// in ascending priority; equal priorities run in registration order.
type Bus struct {
	mu        sync.RWMutex
	observers map[string][]registration
	seq       int
	logger    *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		observers: make(map[string][]registration),
		logger:    logger,
	}
}

// Subscribe registers an observer for events of the given name and returns
// a function that removes it.
func (b *Bus) Subscribe(eventName, observerName string, priority int, o Observer) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	reg := registration{name: observerName, priority: priority, seq: b.seq, observer: o}
	regs := append(slices.Clone(b.observers[eventName]), reg)
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})
	b.observers[eventName] = regs

	b.logger.Debug("event observer registered",
		"event", eventName,
		"observer", observerName,
		"priority", priority,
	)

	seq := reg.seq
	return func() { b.unsubscribe(eventName, seq) }
}

func (b *Bus) unsubscribe(eventName string, seq int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.observers[eventName]
	for i, r := range regs {
		if r.seq == seq {
			b.observers[eventName] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Emit delivers ev to every observer. Every observer sees the event, so a
// later observer can see or undo an earlier veto; the final flag decides.
func (b *Bus) Emit(ctx context.Context, ev Event) {
	b.mu.RLock()
	regs := b.observers[ev.Name()]
	b.mu.RUnlock()

	for _, r := range regs {
		r.observer.HandleEvent(ctx, ev)
	}
}

// EmitCancellable delivers ev and reports whether it ended up cancelled.
func (b *Bus) EmitCancellable(ctx context.Context, ev Cancellable) bool {
	b.Emit(ctx, ev)
	if ev.Cancelled() {
		b.logger.Debug("event cancelled by observer", "event", ev.Name())
		return true
	}
	return false
}
