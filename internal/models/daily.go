package models

import "time"

// DailyGame records which catalog entry is the puzzle for one calendar day.
// At most one record exists per day window; once written it is never
// reassigned or deleted.
type DailyGame struct {
	ID       int64
	Day      time.Time
	CarIndex int
}
