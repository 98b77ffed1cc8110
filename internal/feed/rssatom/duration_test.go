package rssatom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"1:23:45", intPtr(5025)},
		{"12:34", intPtr(754)},
		{"0", intPtr(0)},
		{"90", intPtr(90)},
		{"00:28:19", intPtr(1699)},
		{"1:2:3:4", nil},
		{"12:ab", nil},
		{"-1", nil},
		{"1:-2", nil},
		{"", nil},
		{"  ", nil},
	}

	for _, tc := range cases {
		got := ParseDuration(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.in)
			continue
		}
		require.NotNil(t, got, "input %q", tc.in)
		assert.Equal(t, *tc.want, *got, "input %q", tc.in)
	}
}

func intPtr(n int) *int { return &n }
