// Package engine resolves where a grow cycle stands in time. Every function
// takes "now" explicitly; there is no running clock and nothing to miss.
package engine

import (
	"math"
	"time"

	"farmops/pkg/cycle/types"
)

const Day = 24 * time.Hour

// CurrentDay is the 1-based day of the cycle at now. Times before startedAt
// clamp to day 1; callers that care about "not yet begun" compare the times.
func CurrentDay(startedAt, now time.Time) int {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		return 1
	}
	return int(elapsed/Day) + 1
}

// ActiveStage returns the first stage, in stored order, whose range holds day.
// Overlapping ranges are resolved by that order alone.
func ActiveStage(stages []types.Stage, day int) (types.Stage, bool) {
	for _, s := range stages {
		if s.Contains(day) {
			return s, true
		}
	}
	return types.Stage{}, false
}

func ProgressPercent(day, totalDays int) int {
	if totalDays <= 0 || day <= 0 {
		return 0
	}
	p := int(math.Round(float64(day) / float64(totalDays) * 100))
	if p > 100 {
		return 100
	}
	return p
}

type StageStatus string

const (
	StatusPast     StageStatus = "past"
	StatusCurrent  StageStatus = "current"
	StatusUpcoming StageStatus = "upcoming"
)

type TimelineEntry struct {
	Stage    types.Stage `json:"stage"`
	Status   StageStatus `json:"status"`
	DaysLeft int         `json:"days_left"`
}

// Timeline labels each stage for rendering in stored order. Only the stage
// ActiveStage would pick is current; an overlapped stage that also holds day
// is reported as upcoming if it has not ended.
func Timeline(stages []types.Stage, day int) []TimelineEntry {
	active, ok := ActiveStage(stages, day)
	out := make([]TimelineEntry, 0, len(stages))
	for _, s := range stages {
		e := TimelineEntry{Stage: s}
		switch {
		case ok && s.Type == active.Type:
			e.Status = StatusCurrent
			e.DaysLeft = DaysLeft(s, day)
		case s.DayEnd < day:
			e.Status = StatusPast
		default:
			e.Status = StatusUpcoming
			e.DaysLeft = DaysLeft(s, day)
		}
		out = append(out, e)
	}
	return out
}

// DaysLeft counts the days from day through the end of the stage, inclusive.
func DaysLeft(s types.Stage, day int) int {
	if day > s.DayEnd {
		return 0
	}
	if day < s.DayStart {
		return s.Days()
	}
	return s.DayEnd - day + 1
}
