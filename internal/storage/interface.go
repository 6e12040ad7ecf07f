// SPDX-License-Identifier: AGPL-3.0-only
package storage

import (
	"context"

	"github.com/Traves-Theberge/Tasky/internal/model"
)

// DocumentVersion is written into every saved document.
const DocumentVersion = "2.0.0"

// Document is the single persisted unit: all reminders plus the flat
// settings map. Last write wins; there is no merging.
type Document struct {
	Reminders []*model.Reminder `json:"reminders"`
	Settings  model.Settings    `json:"settings"`
	Version   string            `json:"version"`
}

// DefaultDocument returns the document written on first run.
func DefaultDocument() *Document {
	return &Document{
		Reminders: []*model.Reminder{},
		Settings:  model.DefaultSettings(),
		Version:   DocumentVersion,
	}
}

// Event represents a storage change event. For now, it's a simple signal to reload.
type Event struct{}

// Store abstracts reminder/settings persistence backends.
type Store interface {
	// Load returns the persisted document, or defaults when nothing exists yet.
	Load(ctx context.Context) (*Document, error)
	// Save persists the document atomically.
	Save(ctx context.Context, doc *Document) error
	// Watch starts watching for underlying storage changes and emits events.
	// The returned channel is closed when the context is done or on fatal watcher error.
	Watch(ctx context.Context) (<-chan Event, error)
	// Close releases any resources used by the store.
	Close() error
}
