// SPDX-License-Identifier: AGPL-3.0-only

// Package scheduler owns the mapping from reminder ids to live cron
// triggers and composes the recurrence encoder, the toggle state, and the
// delivery dispatcher behind the Scheduler facade.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Traves-Theberge/Tasky/internal/config"
	"github.com/Traves-Theberge/Tasky/internal/eventbus"
	"github.com/Traves-Theberge/Tasky/internal/logging"
	"github.com/Traves-Theberge/Tasky/internal/model"
	"github.com/Traves-Theberge/Tasky/internal/notify"
	"github.com/Traves-Theberge/Tasky/internal/recurrence"
	"github.com/Traves-Theberge/Tasky/internal/storage"
)

// testReminderMessage is dispatched by TestNotification.
const testReminderMessage = "This is a test notification from Tasky! 🎉"

type reminderScheduler struct {
	cron        *cron.Cron
	entries     map[string]cron.EntryID
	mu          sync.Mutex
	cfg         *config.SchedulerConfig
	dispatcher  model.Dispatcher
	state       *notify.State
	bus         eventbus.Bus
	store       storage.Store
	logger      *logging.Logger
	cancelWatch context.CancelFunc
}

// New creates a scheduler. Triggers are evaluated in the configured
// timezone; the nil bus and store are allowed and simply skip event
// emission and persistence.
func New(cfg *config.SchedulerConfig, dispatcher model.Dispatcher, state *notify.State, bus eventbus.Bus) Scheduler {
	if cfg == nil {
		cfg = &config.DefaultConfig().Scheduler
	}
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)
	return &reminderScheduler{
		cron:       c,
		entries:    make(map[string]cron.EntryID),
		cfg:        cfg,
		dispatcher: dispatcher,
		state:      state,
		bus:        bus,
		logger:     logging.GetDefaultLogger(),
	}
}

// SetStore attaches the persistence backend.
func (s *reminderScheduler) SetStore(store storage.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

// Start begins trigger evaluation, loads the persisted document, and
// starts watching storage for external changes.
func (s *reminderScheduler) Start(ctx context.Context) {
	s.cron.Start()

	s.loadFromStore(ctx)
	s.startWatch(ctx)

	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.logger.Errorf("error stopping scheduler: %v", err)
		}
	}()
}

// Stop halts trigger evaluation and clears the registry. Triggers already
// mid-fire complete their dispatch but are not re-armed.
func (s *reminderScheduler) Stop() error {
	s.mu.Lock()
	for id, entryID := range s.entries {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}
	store := s.store
	cancel := s.cancelWatch
	s.cancelWatch = nil
	s.mu.Unlock()

	s.cron.Stop()

	if cancel != nil {
		cancel()
	}
	if store != nil {
		_ = store.Close()
	}
	if closer, ok := s.dispatcher.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	return nil
}

// ScheduleReminder installs a trigger for an enabled reminder.
func (s *reminderScheduler) ScheduleReminder(reminder *model.Reminder) error {
	if !reminder.Enabled || !s.state.NotificationsEnabled() {
		return nil
	}
	if err := reminder.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installLocked(reminder)
}

// RemoveReminder stops and deletes the trigger for id, if any.
func (s *reminderScheduler) RemoveReminder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// UpdateReminder replaces the trigger for id with the new definition.
func (s *reminderScheduler) UpdateReminder(id string, reminder *model.Reminder) error {
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()

	return s.ScheduleReminder(reminder)
}

// LoadReminders clears every trigger and schedules the enabled entries.
func (s *reminderScheduler) LoadReminders(reminders []*model.Reminder) {
	s.mu.Lock()
	for id, entryID := range s.entries {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}

	scheduled := 0
	for _, reminder := range reminders {
		if reminder == nil || !reminder.Enabled {
			continue
		}
		if !s.state.NotificationsEnabled() {
			continue
		}
		if err := reminder.Validate(); err != nil {
			s.logger.Warnf("skipping reminder %s: %v", reminder.ID, err)
			continue
		}
		if err := s.installLocked(reminder); err != nil {
			s.logger.Warnf("failed to schedule reminder %s: %v", reminder.ID, err)
			continue
		}
		scheduled++
	}
	s.mu.Unlock()

	s.logger.Infof("loaded %d reminders, %d scheduled", len(reminders), scheduled)
	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.TypeRemindersLoaded, Data: scheduled})
	}
}

// ActiveReminders returns the ids holding a live trigger.
func (s *reminderScheduler) ActiveReminders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	return ids
}

// TestNotification dispatches a synthesized reminder carrying the current
// time-of-day and the five weekdays, without installing a trigger.
func (s *reminderScheduler) TestNotification(ctx context.Context) {
	if !s.state.NotificationsEnabled() {
		s.logger.Infof("test notification blocked: notifications are disabled")
		return
	}

	now := time.Now().In(s.cfg.Location())
	test := &model.Reminder{
		ID:      "test",
		Message: testReminderMessage,
		Time:    now.Format("15:04"),
		Days:    []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		Enabled: true,
	}
	s.dispatcher.Dispatch(ctx, test)
}

// ToggleNotifications flips the global notification gate. Live triggers
// stay installed; the dispatcher suppresses their firings while disabled.
func (s *reminderScheduler) ToggleNotifications(enabled bool) {
	s.state.SetNotificationsEnabled(enabled)
	s.logger.Infof("notifications %s", onOff(enabled))
}

// ToggleSound flips the global sound gate.
func (s *reminderScheduler) ToggleSound(enabled bool) {
	s.state.SetSoundEnabled(enabled)
	s.logger.Infof("sound %s", onOff(enabled))
}

// SetNotificationType forwards the legacy setting to the toggle state.
func (s *reminderScheduler) SetNotificationType(value string) {
	s.state.SetNotificationType(value)
}

// installLocked creates and starts the trigger for reminder, replacing any
// existing entry for the same id. Caller must hold s.mu.
func (s *reminderScheduler) installLocked(reminder *model.Reminder) error {
	s.removeLocked(reminder.ID)

	pattern, err := recurrence.Encode(reminder.Days, reminder.Time)
	if err != nil {
		return err
	}

	// Each firing dispatches a private copy so later updates to the
	// definition never race an in-flight delivery.
	fired := reminder.Clone()
	timeout := s.cfg.DispatchTimeout.Std()
	entryID, err := s.cron.AddFunc(pattern, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.dispatcher.Dispatch(ctx, fired)
	})
	if err != nil {
		return err
	}

	s.entries[reminder.ID] = entryID
	s.logger.Debugf("reminder %s scheduled with pattern %q", reminder.ID, pattern)
	return nil
}

// removeLocked stops and deletes the entry for id if present. Caller must
// hold s.mu.
func (s *reminderScheduler) removeLocked(id string) {
	if entryID, ok := s.entries[id]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, id)
		s.logger.Debugf("reminder %s removed", id)
	}
}

// loadFromStore reads the persisted document, applies the toggle settings,
// and rebuilds the registry.
func (s *reminderScheduler) loadFromStore(ctx context.Context) {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return
	}

	doc, err := store.Load(ctx)
	if err != nil {
		s.logger.Errorf("failed to load reminders from storage: %v", err)
		return
	}

	s.state.ApplySettings(doc.Settings)
	s.LoadReminders(doc.Reminders)
}

// startWatch hot-reloads the registry when the storage file changes.
func (s *reminderScheduler) startWatch(parent context.Context) {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	s.cancelWatch = cancel
	s.mu.Unlock()

	ch, err := store.Watch(ctx)
	if err != nil {
		s.logger.Errorf("failed to start storage watcher: %v", err)
		return
	}
	go func() {
		for range ch {
			s.loadFromStore(context.Background())
		}
	}()
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
