package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func et(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, exchangeTZ)
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		open bool
	}{
		{"weekday mid-session", et(2024, time.March, 6, 12, 0, 0), true},   // Wednesday
		{"open boundary", et(2024, time.March, 6, 9, 30, 0), true},
		{"one second before open", et(2024, time.March, 6, 9, 29, 59), false},
		{"last second of session", et(2024, time.March, 6, 15, 59, 59), true},
		{"close boundary", et(2024, time.March, 6, 16, 0, 0), false},
		{"after hours", et(2024, time.March, 6, 20, 0, 0), false},
		{"saturday", et(2024, time.March, 9, 12, 0, 0), false},
		{"sunday", et(2024, time.March, 10, 12, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, IsOpen(tt.t))
		})
	}
}

func TestIsOpen_AcrossDST(t *testing.T) {
	// US DST started 2024-03-10. 14:30 UTC is 10:30 EDT after the switch
	// but 09:30 EST before it; both must resolve via the tz database.
	beforeDST := time.Date(2024, time.March, 8, 14, 30, 0, 0, time.UTC) // Friday, 09:30 EST
	afterDST := time.Date(2024, time.March, 11, 13, 30, 0, 0, time.UTC) // Monday, 09:30 EDT
	assert.True(t, IsOpen(beforeDST))
	assert.True(t, IsOpen(afterDST))
}

func TestNextOpen(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{"friday afternoon rolls to monday", et(2024, time.March, 8, 14, 0, 0), et(2024, time.March, 11, 9, 30, 0)},
		{"saturday rolls to monday", et(2024, time.March, 9, 10, 0, 0), et(2024, time.March, 11, 9, 30, 0)},
		{"sunday rolls to monday", et(2024, time.March, 10, 10, 0, 0), et(2024, time.March, 11, 9, 30, 0)},
		{"weekday before open stays same day", et(2024, time.March, 6, 8, 0, 0), et(2024, time.March, 6, 9, 30, 0)},
		{"exact open boundary returns itself", et(2024, time.March, 6, 9, 30, 0), et(2024, time.March, 6, 9, 30, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOpen(tt.t)
			require.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.True(t, IsWeekday(got))
		})
	}
}

func TestNextClose(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{"mid-session closes same day", et(2024, time.March, 6, 12, 0, 0), et(2024, time.March, 6, 16, 0, 0)},
		{"after close rolls to next day", et(2024, time.March, 6, 17, 0, 0), et(2024, time.March, 7, 16, 0, 0)},
		{"friday evening rolls to monday", et(2024, time.March, 8, 17, 0, 0), et(2024, time.March, 11, 16, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextClose(tt.t)
			require.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestPartsIn(t *testing.T) {
	// 2024-03-06 17:45:10 UTC = 12:45:10 EST, a Wednesday.
	parts := PartsIn(time.Date(2024, time.March, 6, 17, 45, 10, 0, time.UTC))
	assert.Equal(t, 2024, parts.Year)
	assert.Equal(t, time.March, parts.Month)
	assert.Equal(t, 6, parts.Day)
	assert.Equal(t, 12, parts.Hour)
	assert.Equal(t, 45, parts.Minute)
	assert.Equal(t, 10, parts.Second)
	assert.Equal(t, time.Wednesday, parts.Weekday)
}
