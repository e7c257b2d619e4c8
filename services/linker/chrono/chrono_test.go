// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for meeting-date validation

package chrono

import (
	"testing"
	"time"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Parse Tests
// =============================================================================

func TestParse_FullDate(t *testing.T) {
	d, ok := Parse("1999-05-01")
	require.True(t, ok)
	assert.False(t, d.YearOnly)
	assert.Equal(t, 1999, d.Year())
	assert.Equal(t, time.May, d.Time.Month())
}

func TestParse_WikidataTimestamp(t *testing.T) {
	d, ok := Parse("1962-07-03T00:00:00Z")
	require.True(t, ok)
	assert.Equal(t, 1962, d.Year())
}

func TestParse_SignedWikidataTimestamp(t *testing.T) {
	d, ok := Parse("+1962-07-03T00:00:00Z")
	require.True(t, ok)
	assert.Equal(t, 1962, d.Year())
}

func TestParse_YearOnly(t *testing.T) {
	d, ok := Parse("1984")
	require.True(t, ok)
	assert.True(t, d.YearOnly)
	assert.Equal(t, 1984, d.Year())
}

func TestParse_Garbage(t *testing.T) {
	for _, s := range []string{"", "   ", "unknown", "circa 1990", "99-99-99"} {
		_, ok := Parse(s)
		assert.False(t, ok, "input %q should not parse", s)
	}
}

// =============================================================================
// ValidateMeeting Tests
// =============================================================================

func span(birth, death string) datatypes.Lifespan {
	return datatypes.Lifespan{Birth: birth, Death: death}
}

func TestValidateMeeting_EmptyDateAlwaysAccepted(t *testing.T) {
	cases := []struct {
		a, b datatypes.Lifespan
	}{
		{span("", ""), span("", "")},
		{span("1900-01-01", "1950-01-01"), span("1990-01-01", "")},
		{span("2020-01-01", ""), span("1800-01-01", "1850-01-01")},
	}
	for _, tc := range cases {
		assert.True(t, ValidateMeeting("", tc.a, tc.b, "A", "B"))
	}
}

func TestValidateMeeting_UnparseableDateAccepted(t *testing.T) {
	assert.True(t, ValidateMeeting("sometime in the 90s",
		span("1900-01-01", "1950-01-01"), span("", ""), "A", "B"))
}

func TestValidateMeeting_BeforeBirthRejected(t *testing.T) {
	// Meeting in 1960, person A born 1970.
	ok := ValidateMeeting("1960-06-15",
		span("1970-01-01", ""), span("1930-01-01", ""), "A", "B")
	assert.False(t, ok)
}

func TestValidateMeeting_AfterDeathRejected(t *testing.T) {
	// Meeting in 2010, person B died 1995. No grace period.
	ok := ValidateMeeting("2010-03-03",
		span("1930-01-01", ""), span("1920-01-01", "1995-08-01"), "A", "B")
	assert.False(t, ok)
}

func TestValidateMeeting_DayAfterDeathRejected(t *testing.T) {
	ok := ValidateMeeting("1995-08-02",
		span("", ""), span("1920-01-01", "1995-08-01"), "A", "B")
	assert.False(t, ok)
}

func TestValidateMeeting_WithinLifespansAccepted(t *testing.T) {
	ok := ValidateMeeting("1999-05-01",
		span("1962-07-03T00:00:00Z", ""), span("1950-01-01", "2005-01-01"), "A", "B")
	assert.True(t, ok)
}

func TestValidateMeeting_YearGranularity(t *testing.T) {
	// Year-only meeting date in the birth year is not "before birth"
	// even though January 1 precedes a mid-year birthday.
	ok := ValidateMeeting("1962",
		span("1962-07-03", ""), span("", ""), "A", "B")
	assert.True(t, ok)

	// One year earlier is rejected.
	ok = ValidateMeeting("1961",
		span("1962-07-03", ""), span("", ""), "A", "B")
	assert.False(t, ok)
}

func TestValidateMeeting_YearOnlyDeathBound(t *testing.T) {
	// Death recorded only as a year: a meeting in a later year is
	// impossible, a meeting the same year is allowed.
	assert.False(t, ValidateMeeting("1996-01-01",
		span("", ""), span("", "1995"), "A", "B"))
	assert.True(t, ValidateMeeting("1995-12-31",
		span("", ""), span("", "1995"), "A", "B"))
}

func TestValidateMeeting_MissingLifespansConstrainNothing(t *testing.T) {
	assert.True(t, ValidateMeeting("1850-01-01",
		span("", ""), span("", ""), "A", "B"))
}
