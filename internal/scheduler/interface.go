// SPDX-License-Identifier: AGPL-3.0-only
package scheduler

import (
	"context"

	"github.com/Traves-Theberge/Tasky/internal/model"
	"github.com/Traves-Theberge/Tasky/internal/storage"
)

// Scheduler is the only surface the UI and storage layers call. Per-id
// lifecycle is Unscheduled -> Scheduled -> Unscheduled; an update replaces
// the live trigger in place. At most one live trigger exists per id.
type Scheduler interface {
	// ScheduleReminder installs a periodic trigger for the reminder. It is
	// a no-op for disabled reminders and while notifications are globally
	// disabled. Any existing trigger for the same id is replaced.
	ScheduleReminder(reminder *model.Reminder) error
	// RemoveReminder stops and discards the trigger for id. Removing an
	// unknown id is a benign no-op.
	RemoveReminder(id string)
	// UpdateReminder replaces the trigger for id with one derived from the
	// new definition, re-evaluating the enabled and toggle gates.
	UpdateReminder(id string, reminder *model.Reminder) error
	// LoadReminders clears the registry and schedules every enabled entry.
	// Invalid entries are logged and skipped, never fatal.
	LoadReminders(reminders []*model.Reminder)
	// ActiveReminders returns the ids that currently hold a live trigger.
	ActiveReminders() []string
	// TestNotification dispatches a synthesized reminder immediately,
	// bypassing trigger installation.
	TestNotification(ctx context.Context)
	// ToggleNotifications flips the global notification gate.
	ToggleNotifications(enabled bool)
	// ToggleSound flips the global sound gate.
	ToggleSound(enabled bool)
	// SetNotificationType maps the legacy notification type to an overlay
	// bubble side and forwards it.
	SetNotificationType(value string)
	// SetStore attaches the persistence backend used by Start for the
	// initial load and hot reloads.
	SetStore(store storage.Store)
	// Start begins trigger evaluation and performs the initial load.
	Start(ctx context.Context)
	// Stop tears down every trigger and releases platform resources. No
	// trigger fires after Stop returns.
	Stop() error
}
