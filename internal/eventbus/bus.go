// SPDX-License-Identifier: AGPL-3.0-only

// Package eventbus carries fire-and-forget signals from the engine to the
// UI layer. Publish never blocks a dispatch; slow subscribers drop events.
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event types emitted by the engine.
const (
	// TypeReminderFired is published on every delivery attempt of a due reminder.
	TypeReminderFired = "reminder.fired"
	// TypeRemindersLoaded is published after a bulk reload from storage.
	TypeRemindersLoaded = "reminders.loaded"
)

// Event is a lightweight in-memory signal. Data should be small and
// JSON-serializable.
type Event struct {
	Type string
	Time time.Time
	Data any
}

// Bus fans events out to subscribers.
type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns an in-memory fanout bus with no background goroutines.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	// Snapshot subscribers so Publish never holds the lock while sending.
	b.mu.RLock()
	chs := make([]chan Event, 0, len(b.subs))
	for _, ch := range b.subs {
		chs = append(chs, ch)
	}
	b.mu.RUnlock()

	for _, ch := range chs {
		// Non-blocking delivery; a concurrently-closed channel must not
		// take the publisher down with it.
		func() {
			defer func() { _ = recover() }()
			select {
			case ch <- e:
			default:
			}
		}()
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}
