package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "plain", input: "09:30", want: 9*60 + 30},
		{name: "single digit hour", input: "9:30", want: 9*60 + 30},
		{name: "midnight", input: "00:00", want: 0},
		{name: "end of day", input: "24:00", want: 24 * 60},
		{name: "seconds tolerated", input: "09:00:00", want: 9 * 60},
		{name: "surrounding whitespace", input: " 18:00 ", want: 18 * 60},
		{name: "past end of day", input: "24:01", wantErr: true},
		{name: "minutes out of range", input: "10:60", wantErr: true},
		{name: "hours out of range", input: "25:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(9*60+5))
	assert.Equal(t, "21:00", FormatClock(21*60))
}

func TestParseClockFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "06:30", "12:00", "23:59"} {
		min, err := ParseClock(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatClock(min))
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOpen  int
		wantClose int
		wantErr   bool
	}{
		{name: "dash", input: "06:00-22:00", wantOpen: 6 * 60, wantClose: 22 * 60},
		{name: "tilde", input: "09:00~18:00", wantOpen: 9 * 60, wantClose: 18 * 60},
		{name: "spaces around dash", input: "09:00 - 21:00", wantOpen: 9 * 60, wantClose: 21 * 60},
		{name: "closes at midnight", input: "10:00-24:00", wantOpen: 10 * 60, wantClose: 24 * 60},
		{name: "open after close", input: "22:00-06:00", wantErr: true},
		{name: "open equals close", input: "10:00-10:00", wantErr: true},
		{name: "missing separator", input: "09:00", wantErr: true},
		{name: "garbage half", input: "09:00-late", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, close, err := ParseWindow(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOpen, open)
			assert.Equal(t, tt.wantClose, close)
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		aS, aE, bS, bE int
		want           bool
	}{
		{name: "identical", aS: 60, aE: 120, bS: 60, bE: 120, want: true},
		{name: "partial", aS: 60, aE: 120, bS: 90, bE: 180, want: true},
		{name: "contained", aS: 0, aE: 240, bS: 60, bE: 120, want: true},
		{name: "touching ends", aS: 60, aE: 120, bS: 120, bE: 180, want: false},
		{name: "disjoint", aS: 0, aE: 60, bS: 120, bE: 180, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aS, tt.aE, tt.bS, tt.bE))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bS, tt.bE, tt.aS, tt.aE))
		})
	}
}
