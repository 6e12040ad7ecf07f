// SPDX-License-Identifier: AGPL-3.0-only

// Package notify implements delivery of due reminders: the toggle gates,
// the sound cascade, event emission, and the prioritized channel chain
// overlay -> native notification -> platform banner -> emergency console.
package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/Traves-Theberge/Tasky/internal/eventbus"
	"github.com/Traves-Theberge/Tasky/internal/logging"
	"github.com/Traves-Theberge/Tasky/internal/model"
	"github.com/Traves-Theberge/Tasky/internal/platform"
)

// Title is the fixed native-notification and banner title.
const Title = "📋 Tasky Reminder"

// Dispatcher routes a due reminder to the user. It holds no state of its
// own beyond the injected collaborators; toggle state lives in State.
type Dispatcher struct {
	state   *State
	overlay Overlay
	native  NativeNotifier
	banner  platform.Banner
	sound   Sound
	bus     eventbus.Bus
	logger  *logging.Logger

	// soundAsync is disabled in tests so the cascade can be observed
	// deterministically.
	soundAsync bool
}

// NewDispatcher wires a dispatcher. Nil collaborators fall back to safe
// defaults so partial wiring (e.g. no overlay) keeps working.
func NewDispatcher(state *State, overlay Overlay, native NativeNotifier, banner platform.Banner, sound Sound, bus eventbus.Bus, logger *logging.Logger) *Dispatcher {
	if overlay == nil {
		overlay = NopOverlay{}
	}
	if native == nil {
		native = BeeepNotifier{}
	}
	if banner == nil {
		banner = platform.NewBanner()
	}
	if logger == nil {
		logger = logging.GetDefaultLogger()
	}
	return &Dispatcher{
		state:      state,
		overlay:    overlay,
		native:     native,
		banner:     banner,
		sound:      sound,
		bus:        bus,
		logger:     logger,
		soundAsync: true,
	}
}

// Dispatch implements model.Dispatcher. It never returns an error and never
// panics: every channel failure degrades to the next fallback, and total
// failure ends in an emergency console line.
//
// The gates are read once at entry. Flipping a toggle while a dispatch is
// in flight does not cancel attempts already underway; the flip applies
// from the next firing.
func (d *Dispatcher) Dispatch(ctx context.Context, reminder *model.Reminder) {
	if !d.state.NotificationsEnabled() {
		d.logger.Debugf("dispatch of %s suppressed: notifications disabled", reminder.ID)
		return
	}

	// Sound runs concurrently so a slow audio backend never delays the
	// visible channel. Each backend attempt is individually bounded, so
	// the goroutine has a hard ceiling.
	if d.state.SoundEnabled() && d.sound != nil {
		if d.soundAsync {
			go d.sound.Play(context.WithoutCancel(ctx))
		} else {
			d.sound.Play(ctx)
		}
	}

	if d.bus != nil {
		d.bus.Publish(eventbus.Event{Type: eventbus.TypeReminderFired, Data: reminder})
	}

	// Preferred channel: the overlay character, when visible. It always
	// wins over native notifications; native is strictly a fallback for
	// "no visible overlay", never a parallel channel.
	if d.overlay.IsVisible() {
		err := d.overlay.Speak(reminder.Message)
		if err == nil {
			d.logger.Debugf("reminder %s delivered via overlay", reminder.ID)
			return
		}
		d.logger.Warnf("overlay delivery for %s failed: %v", reminder.ID, err)
	}

	err := d.native.Notify(Title, reminder.Message)
	if err == nil {
		d.logger.Debugf("reminder %s delivered via native notification", reminder.ID)
		return
	}
	d.logger.Warnf("native notification for %s failed: %v", reminder.ID, err)

	d.showBanner(ctx, reminder)
}

// showBanner invokes the platform fallback. This step must never throw: a
// panic or error here is swallowed into an emergency console log.
func (d *Dispatcher) showBanner(ctx context.Context, reminder *model.Reminder) {
	defer func() {
		if r := recover(); r != nil {
			d.emergencyLog(reminder)
			d.logger.Errorf("fallback banner panicked: %v", r)
		}
	}()

	if err := d.banner.Show(ctx, Title, reminder.Message); err != nil {
		d.logger.Warnf("fallback banner for %s failed: %v", reminder.ID, err)
		d.emergencyLog(reminder)
		return
	}
	d.logger.Debugf("reminder %s delivered via platform banner", reminder.ID)
}

func (d *Dispatcher) emergencyLog(reminder *model.Reminder) {
	fmt.Fprintf(os.Stdout, "🔔 EMERGENCY REMINDER: %s\n", reminder.Message)
}

// Close releases platform resources held by the fallback channel, such as
// lingering PowerShell processes on Windows.
func (d *Dispatcher) Close() error {
	return d.banner.Cleanup()
}
