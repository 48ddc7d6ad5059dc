package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw, short, long string
	}{
		{"2026-02-12", "12 Feb 2026", "12 February 2026"},
		{"2026-01-05T09:30:00Z", "5 Jan 2026", "5 January 2026"},
		{"5 February 2026", "5 Feb 2026", "5 February 2026"},
		{"March 1, 2026", "1 Mar 2026", "1 March 2026"},
		{"next week", "next week", "next week"},
		{"", "", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.short, ShortDate(tt.raw), tt.raw)
		require.Equal(t, tt.long, LongDate(tt.raw), tt.raw)
	}
}

func TestCategoryClass(t *testing.T) {
	t.Parallel()

	require.Equal(t, "cat-casestudy", CategoryClass("Case Study"))
	require.Equal(t, "cat-strategy", CategoryClass("Operations"))
}

func TestLines(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Stop guessing.<br>Start &lt;automating&gt;.", string(Lines("Stop guessing.\nStart <automating>.")))
}
