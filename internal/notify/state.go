// SPDX-License-Identifier: AGPL-3.0-only
package notify

import (
	"sync"

	"github.com/Traves-Theberge/Tasky/internal/model"
)

// State holds the process-wide delivery toggles. It is read by the
// dispatcher on every firing and mutated only through the setters below, so
// the engine stays instantiable multiple times in tests instead of leaning
// on true globals.
type State struct {
	mu            sync.RWMutex
	notifications bool
	sound         bool
	bubbleSide    BubbleSide
	overlay       Overlay
}

// NewState creates toggle state with notifications and sound enabled.
// Bubble-side changes are forwarded to the given overlay.
func NewState(overlay Overlay) *State {
	if overlay == nil {
		overlay = NopOverlay{}
	}
	return &State{
		notifications: true,
		sound:         true,
		bubbleSide:    BubbleLeft,
		overlay:       overlay,
	}
}

// SetNotificationsEnabled flips the global notification gate. Takes effect
// on the next firing; an in-flight dispatch completes its current attempt.
func (s *State) SetNotificationsEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = enabled
}

// SetSoundEnabled flips the global sound gate.
func (s *State) SetSoundEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sound = enabled
}

// NotificationsEnabled reports whether dispatch is allowed at all.
func (s *State) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications
}

// SoundEnabled reports whether the sound cascade runs on dispatch.
func (s *State) SoundEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sound
}

// BubbleSide returns the current overlay speech-bubble side.
func (s *State) BubbleSide() BubbleSide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bubbleSide
}

// SetNotificationType maps the legacy notificationType setting to a bubble
// side ("native" puts the bubble on the right, anything else on the left)
// and forwards it to the overlay.
func (s *State) SetNotificationType(value string) {
	side := BubbleLeft
	if value == "native" {
		side = BubbleRight
	}

	s.mu.Lock()
	s.bubbleSide = side
	overlay := s.overlay
	s.mu.Unlock()

	overlay.SetBubbleSide(side)
}

// ApplySettings loads the persisted toggle values in one call. Used at
// startup and after a storage hot-reload.
func (s *State) ApplySettings(settings model.Settings) {
	s.mu.Lock()
	s.notifications = settings.EnableNotifications
	s.sound = settings.EnableSound
	s.mu.Unlock()

	s.SetNotificationType(settings.NotificationType)
}
