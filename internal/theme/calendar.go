// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"strconv"
	"strings"
	"time"

	"ecardfactory/internal/models"
)

// Weekdays are the day_of_week tokens, Monday first.
var Weekdays = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// WeekdayIndex numbers days from Monday=0 to Sunday=6.
func WeekdayIndex(d models.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// WeekdayName returns the lowercase weekday token for d.
func WeekdayName(d models.Date) string {
	return Weekdays[WeekdayIndex(d)]
}

// RotationBucket maps a calendar month to one of three weekly rotations:
// Jan-Mar and Oct-Dec use 1, Apr-Jun 2, Jul-Sep 3. The seeded weekly
// themes carry exactly these three buckets.
func RotationBucket(m time.Month) int {
	return ((int(m)-1)%9)/3 + 1
}

// RotationBuckets is the number of distinct values RotationBucket returns.
const RotationBuckets = 3

// ParseWeekday accepts a weekday name in any case or its Monday=0 index
// as a string, and returns the index.
func ParseWeekday(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range Weekdays {
		if s == name || s == strconv.Itoa(i) {
			return i, true
		}
	}
	return 0, false
}
