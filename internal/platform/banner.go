// SPDX-License-Identifier: AGPL-3.0-only

// Package platform isolates the OS-specific fallback banner used when both
// the overlay and native notifications are unavailable. The dispatcher only
// sees the Banner interface; one implementation exists per OS.
package platform

import "context"

// Banner shows a transient platform notification as a last-resort delivery
// channel.
type Banner interface {
	// Show displays the banner. Implementations spawn helper processes and
	// must respect ctx for cancellation.
	Show(ctx context.Context, title, message string) error
	// Cleanup releases helper processes spawned by Show. Called on destroy.
	Cleanup() error
}

// NewBanner returns the banner implementation for the current OS.
func NewBanner() Banner {
	return newBanner()
}
