// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package chrono validates claimed meeting dates against lifespans.
//
// Dates arrive loosely formatted from two unreliable sources: the oracle
// (meeting dates as "YYYY-MM-DD", a bare year, or empty) and Wikidata
// (birth/death as full timestamps, dates, or years). The validator is
// deliberately lenient: absence of evidence is not evidence of
// impossibility, so anything that does not parse is accepted. Only the
// two unambiguous impossibilities are rejected, with no buffer: a
// meeting before either person's birth, or after either person's death.
package chrono

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// FlexDate is a parsed date that may carry only year precision.
type FlexDate struct {
	Time     time.Time
	YearOnly bool
}

// Year returns the calendar year of the date.
func (d FlexDate) Year() int { return d.Time.Year() }

// dateLayouts are tried in order for day-precision input.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

// Parse interprets a loosely formatted date string.
//
// Accepted forms: "YYYY-MM-DD", RFC3339 timestamps (Wikidata emits
// "1962-07-03T00:00:00Z"), and bare years ("1962"). Returns ok=false
// for anything else, including the empty string.
func Parse(s string) (FlexDate, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlexDate{}, false
	}

	// Wikidata sometimes prefixes an explicit era sign.
	s = strings.TrimPrefix(s, "+")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FlexDate{Time: t}, true
		}
	}

	if year, err := strconv.Atoi(s); err == nil && year > 0 && year < 3000 {
		return FlexDate{
			Time:     time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			YearOnly: true,
		}, true
	}

	return FlexDate{}, false
}

// strictlyBefore reports whether a is before b, comparing at year
// granularity when either side carries only a year. Equal years with
// partial precision are not "before" (lenient within the same year).
func strictlyBefore(a, b FlexDate) bool {
	if a.YearOnly || b.YearOnly {
		return a.Year() < b.Year()
	}
	return a.Time.Before(b.Time)
}

// ValidateMeeting decides whether a claimed meeting date is
// chronologically plausible given both participants' lifespans.
//
// Policy:
//   - Empty or unparseable meeting dates are accepted.
//   - A meeting strictly before either person's birth is rejected.
//   - A meeting strictly after either person's death is rejected.
//   - Unparseable or absent lifespan bounds constrain nothing.
//
// The names are used only for logging rejected claims.
func ValidateMeeting(date string, a, b datatypes.Lifespan, nameA, nameB string) bool {
	meeting, ok := Parse(date)
	if !ok {
		return true
	}

	for _, check := range []struct {
		name string
		span datatypes.Lifespan
	}{
		{nameA, a},
		{nameB, b},
	} {
		if birth, ok := Parse(check.span.Birth); ok && strictlyBefore(meeting, birth) {
			slog.Info("rejecting meeting before birth",
				"person", check.name,
				"meeting_date", date,
				"birth", check.span.Birth)
			return false
		}
		if death, ok := Parse(check.span.Death); ok && strictlyBefore(death, meeting) {
			slog.Info("rejecting meeting after death",
				"person", check.name,
				"meeting_date", date,
				"death", check.span.Death)
			return false
		}
	}

	return true
}
