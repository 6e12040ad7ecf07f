// SPDX-License-Identifier: AGPL-3.0-only
package notify

import "github.com/gen2brain/beeep"

// NativeNotifier posts a native OS notification.
type NativeNotifier interface {
	Notify(title, message string) error
}

// BeeepNotifier delivers native notifications through the OS notification
// service (notify-send/dbus on Linux, toast on Windows, Notification Center
// on macOS).
type BeeepNotifier struct {
	// AppIcon is an optional icon path passed to the notification service.
	AppIcon string
}

// Notify implements NativeNotifier.
func (n BeeepNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, n.AppIcon)
}
