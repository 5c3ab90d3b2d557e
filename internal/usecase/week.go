package usecase

import "time"

const (
	firstNFLWeek = 1
	lastNFLWeek  = 18
)

// SeasonYear maps a date to the NFL season it belongs to. Seasons start in
// September and run into the next calendar year, so January playoff games
// still belong to the previous year's season.
func SeasonYear(now time.Time) int {
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}

// WeekFromDate estimates the scoring period from the calendar when the
// public scoreboard is unavailable. Week 1 starts the Thursday after Labor
// Day, approximated here as the first Thursday of September.
func WeekFromDate(now time.Time) int {
	season := SeasonYear(now)
	kickoff := firstThursdayOfSeptember(season)
	if now.Before(kickoff) {
		return firstNFLWeek
	}

	week := int(now.Sub(kickoff)/(7*24*time.Hour)) + 1
	if week < firstNFLWeek {
		return firstNFLWeek
	}
	if week > lastNFLWeek {
		return lastNFLWeek
	}
	return week
}

func firstThursdayOfSeptember(year int) time.Time {
	day := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Thursday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// ClampWeek keeps an externally reported week inside the regular season
// range, falling back to the date estimate when the value is unusable.
func ClampWeek(week int, now time.Time) int {
	if week < firstNFLWeek {
		return WeekFromDate(now)
	}
	if week > lastNFLWeek {
		return lastNFLWeek
	}
	return week
}
