// SPDX-License-Identifier: AGPL-3.0-only
package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Traves-Theberge/Tasky/internal/errors"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		days  []string
		clock string
		want  string
	}{
		{
			name:  "single day",
			days:  []string{"monday"},
			clock: "09:05",
			want:  "5 9 * * 1",
		},
		{
			name:  "multiple days sorted ascending",
			days:  []string{"friday", "monday"},
			clock: "09:00",
			want:  "0 9 * * 1,5",
		},
		{
			name:  "input order irrelevant",
			days:  []string{"wednesday", "monday"},
			clock: "09:05",
			want:  "5 9 * * 1,3",
		},
		{
			name:  "case insensitive",
			days:  []string{"Sunday", "SATURDAY"},
			clock: "23:59",
			want:  "59 23 * * 0,6",
		},
		{
			name:  "duplicates collapse",
			days:  []string{"monday", "Monday", "monday"},
			clock: "00:00",
			want:  "0 0 * * 1",
		},
		{
			name:  "single digit hour without leading zero",
			days:  []string{"tuesday"},
			clock: "7:30",
			want:  "30 7 * * 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.days, tt.clock)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		days  []string
		clock string
	}{
		{"empty days", nil, "09:00"},
		{"unknown day", []string{"noday"}, "09:00"},
		{"hour out of range", []string{"monday"}, "24:00"},
		{"minute out of range", []string{"monday"}, "09:60"},
		{"missing minutes", []string{"monday"}, "09"},
		{"not a time", []string{"monday"}, "morning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.days, tt.clock)
			assert.Error(t, err)
			assert.True(t, errors.IsInvalidSchedule(err))
		})
	}
}
