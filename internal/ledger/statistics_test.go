package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStatistics(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		prev Statistics
		want Statistics
	}{
		{
			name: "first ever watch",
			prev: Statistics{},
			want: Statistics{TotalAdsWatched: 1, DailyWatchCount: 1, LastWatchDate: "2026-03-15", StreakDays: 1},
		},
		{
			name: "watched yesterday extends streak",
			prev: Statistics{TotalAdsWatched: 9, DailyWatchCount: 4, LastWatchDate: "2026-03-14", StreakDays: 6},
			want: Statistics{TotalAdsWatched: 10, DailyWatchCount: 1, LastWatchDate: "2026-03-15", StreakDays: 7},
		},
		{
			name: "gap of two days resets streak",
			prev: Statistics{TotalAdsWatched: 9, DailyWatchCount: 4, LastWatchDate: "2026-03-13", StreakDays: 6},
			want: Statistics{TotalAdsWatched: 10, DailyWatchCount: 1, LastWatchDate: "2026-03-15", StreakDays: 1},
		},
		{
			name: "same day increments daily count only",
			prev: Statistics{TotalAdsWatched: 2, DailyWatchCount: 2, LastWatchDate: "2026-03-15", StreakDays: 3},
			want: Statistics{TotalAdsWatched: 3, DailyWatchCount: 3, LastWatchDate: "2026-03-15", StreakDays: 3},
		},
		{
			name: "withdrawal counter untouched",
			prev: Statistics{TotalWithdrawals: 2, LastWatchDate: "2026-03-15", DailyWatchCount: 1, StreakDays: 1},
			want: Statistics{TotalAdsWatched: 1, TotalWithdrawals: 2, DailyWatchCount: 2, LastWatchDate: "2026-03-15", StreakDays: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStatistics(tt.prev, now, time.UTC))
		})
	}
}

func TestNextStatistics_UsesLocationCalendar(t *testing.T) {
	// 23:30 UTC on the 14th is already the 15th in UTC+3
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+3", 3*60*60)

	got := NextStatistics(Statistics{LastWatchDate: "2026-03-14", StreakDays: 2, DailyWatchCount: 5}, now, loc)

	assert.Equal(t, "2026-03-15", got.LastWatchDate)
	assert.Equal(t, 3, got.StreakDays)
	assert.Equal(t, 1, got.DailyWatchCount)
}

func TestNextStatistics_AcrossMonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	got := NextStatistics(Statistics{LastWatchDate: "2026-02-28", StreakDays: 10}, now, time.UTC)

	assert.Equal(t, 11, got.StreakDays)
}
