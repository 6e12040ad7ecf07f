// SPDX-License-Identifier: AGPL-3.0-only
package model

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Traves-Theberge/Tasky/internal/errors"
)

// MaxMessageLength bounds the display text of a reminder.
const MaxMessageLength = 200

// Reminder is a recurring reminder definition. The engine treats it as an
// immutable value per invocation; storage owns the canonical copy.
type Reminder struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Time      string    `json:"time"` // wall-clock HH:MM, 24-hour
	Days      []string  `json:"days"` // weekday names, lowercase
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Validate checks the structural constraints of a reminder. Time format and
// day names are fully validated by the recurrence encoder when a trigger is
// installed; this catches the cheap shape errors first.
func (r *Reminder) Validate() error {
	if r.ID == "" {
		return errors.InvalidInput("reminder id is required")
	}
	if strings.TrimSpace(r.Message) == "" {
		return errors.InvalidInput("reminder message is required")
	}
	// Characters, not bytes: emoji-heavy messages stay within the bound.
	if utf8.RuneCountInString(r.Message) > MaxMessageLength {
		return errors.InvalidInput("reminder message exceeds 200 characters")
	}
	if len(r.Days) == 0 {
		return errors.InvalidSchedule("reminder has no days selected")
	}
	return nil
}

// Clone returns a copy so a dispatch never observes later mutations.
func (r *Reminder) Clone() *Reminder {
	cp := *r
	cp.Days = append([]string(nil), r.Days...)
	return &cp
}

// Dispatcher delivers a due reminder to the user. Implementations must not
// return before their synchronous channel attempts are resolved, and must
// never panic; a firing trigger has nowhere to report an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, reminder *Reminder)
}
