package rssatom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_RFC822NamedZones(t *testing.T) {
	cases := []struct {
		in                    string
		year, day             int
		month                 time.Month
		wantOffsetSeconds     int
	}{
		{"Thu, 22 May 2014 18:00:00 EDT", 2014, 22, time.May, -4 * 3600},
		{"Mon, 06 Sep 2021 08:30:00 PST", 2021, 6, time.September, -8 * 3600},
		{"Fri, 01 Jan 2021 00:00:00 GMT", 2021, 1, time.January, 0},
	}

	for _, tc := range cases {
		got, ok := parseDate(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.Equal(t, tc.year, got.Year(), "input %q", tc.in)
		assert.Equal(t, tc.month, got.Month(), "input %q", tc.in)
		assert.Equal(t, tc.day, got.Day(), "input %q", tc.in)
		_, offset := got.Zone()
		assert.Equal(t, tc.wantOffsetSeconds, offset, "input %q", tc.in)
	}
}

func TestParseDate_RFC822NumericOffset(t *testing.T) {
	got, ok := parseDate("Thu, 22 May 2014 18:00:00 -0400")
	require.True(t, ok)
	assert.Equal(t, 2014, got.Year())
	assert.Equal(t, time.May, got.Month())
	assert.Equal(t, 22, got.Day())
}

func TestParseDate_ISO8601(t *testing.T) {
	got, ok := parseDate("2021-09-06T08:30:00Z")
	require.True(t, ok)
	assert.Equal(t, time.September, got.Month())

	got, ok = parseDate("2021-09-06T08:30:00.123456Z")
	require.True(t, ok)
	assert.Equal(t, 6, got.Day())

	got, ok = parseDate("2021-09-06T08:30:00+02:00")
	require.True(t, ok)
	assert.Equal(t, 2021, got.Year())
}

func TestParseDate_Garbage(t *testing.T) {
	for _, in := range []string{"", "not a date", "32 Foo 2021 99:99:99 XYZ"} {
		_, ok := parseDate(in)
		assert.False(t, ok, "input %q", in)
	}
}
