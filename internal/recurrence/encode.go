// SPDX-License-Identifier: AGPL-3.0-only

// Package recurrence converts a human-friendly (days-of-week, time-of-day)
// reminder definition into a five-field cron pattern.
package recurrence

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Traves-Theberge/Tasky/internal/errors"
)

// weekdayNumbers maps lowercase weekday names to cron day-of-week numbers,
// Sunday=0 through Saturday=6.
var weekdayNumbers = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

var timeOfDay = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Weekday returns the cron number for a weekday name, case-insensitively.
func Weekday(name string) (int, bool) {
	n, ok := weekdayNumbers[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// Encode converts weekday names and an HH:MM time into a cron pattern of the
// form "M H * * d1,d2". Day order and case are irrelevant; duplicates
// collapse. The result is stable: weekday numbers come out sorted ascending.
func Encode(days []string, clock string) (string, error) {
	m := timeOfDay.FindStringSubmatch(clock)
	if m == nil {
		return "", errors.InvalidSchedule(fmt.Sprintf("invalid time %q, expected HH:MM (24-hour)", clock))
	}
	if len(days) == 0 {
		return "", errors.InvalidSchedule("no days selected")
	}

	seen := make(map[int]bool, len(days))
	nums := make([]int, 0, len(days))
	for _, day := range days {
		n, ok := Weekday(day)
		if !ok {
			return "", errors.InvalidSchedule(fmt.Sprintf("unknown day %q", day))
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		nums = append(nums, n)
	}
	sort.Ints(nums)

	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	return fmt.Sprintf("%d %d * * %s", minute, hour, strings.Join(parts, ",")), nil
}
