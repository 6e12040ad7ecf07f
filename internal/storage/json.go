// SPDX-License-Identifier: AGPL-3.0-only
package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Traves-Theberge/Tasky/internal/model"
)

// JSONStore persists the document to a single JSON file and watches it for
// changes, so edits made by the UI process (or by hand) hot-reload.
type JSONStore struct {
	path    string
	mu      sync.RWMutex
	watcher *fsnotify.Watcher
}

// NewJSONStore creates a JSON store backed by the given file path.
func NewJSONStore(path string) (*JSONStore, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &JSONStore{path: abs}, nil
}

// Load implements Store.Load.
func (s *JSONStore) Load(ctx context.Context) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDocument(), nil
		}
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	doc := DefaultDocument()
	dec := json.NewDecoder(bufio.NewReader(f))
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	if doc.Reminders == nil {
		doc.Reminders = []*model.Reminder{}
	}
	return doc, nil
}

// Save implements Store.Save.
func (s *JSONStore) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Version == "" {
		doc.Version = DocumentVersion
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := f.Sync(); err != nil { // ensure contents flushed for atomic rename
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Watch implements Store.Watch.
func (s *JSONStore) Watch(ctx context.Context) (<-chan Event, error) {
	// Ensure directory exists to watch
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir storage dir: %w", err)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	s.watcher = w
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch dir: %w", err)
	}

	ch := make(chan Event)

	go func() {
		defer close(ch)
		defer w.Close()

		// Debounce events for the target file to avoid duplicate reloads during atomic save
		const debounce = 200 * time.Millisecond
		var timer *time.Timer
		var timerC <-chan time.Time
		var pending bool

		stopTimer := func() {
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer = nil
				timerC = nil
			}
		}

		startTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		}

		for {
			select {
			case <-ctx.Done():
				stopTimer()
				return
			case evt, ok := <-w.Events:
				if !ok {
					stopTimer()
					return
				}
				if filepath.Clean(evt.Name) != s.path {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					pending = true
					startTimer()
				}
			case <-timerC:
				if pending {
					select {
					case ch <- Event{}:
					case <-ctx.Done():
						stopTimer()
						return
					}
					pending = false
				}
				stopTimer()
			case _, ok := <-w.Errors:
				if !ok {
					stopTimer()
					return
				}
				// ignore error
			}
		}
	}()

	return ch, nil
}

// Close implements Store.Close.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
