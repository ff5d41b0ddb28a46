package ledger

import "time"

// DateLayout is the calendar-date format stored in Statistics.LastWatchDate.
const DateLayout = "2006-01-02"

// NextStatistics returns prev updated for one completed ad view at now,
// with calendar days evaluated in loc.
func NextStatistics(prev Statistics, now time.Time, loc *time.Location) Statistics {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := local.Format(DateLayout)
	yesterday := local.AddDate(0, 0, -1).Format(DateLayout)

	next := prev
	next.TotalAdsWatched++

	if prev.LastWatchDate != today {
		next.DailyWatchCount = 1
		if prev.LastWatchDate == yesterday {
			next.StreakDays++
		} else {
			next.StreakDays = 1
		}
	} else {
		next.DailyWatchCount++
	}

	next.LastWatchDate = today
	return next
}
