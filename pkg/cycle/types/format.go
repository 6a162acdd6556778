package types

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultWindowStart = "06:00"
	DefaultWindowEnd   = "22:00"
)

// FormatDuration renders an ON time. Unit cutoffs are hard thresholds and the
// value is rounded to the nearest integer, so 3599 renders as "60m".
func FormatDuration(seconds int) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", roundDiv(seconds, 60))
	default:
		return fmt.Sprintf("%dh", roundDiv(seconds, 3600))
	}
}

// FormatFrequency is FormatDuration with an extra day unit.
func FormatFrequency(seconds int) string {
	if seconds >= 86400 {
		return fmt.Sprintf("%dd", roundDiv(seconds, 86400))
	}
	return FormatDuration(seconds)
}

func roundDiv(n, d int) int { return int(math.Round(float64(n) / float64(d))) }

// Window returns the daily activation window, falling back to 06:00-22:00
// for display when none is stored.
func (sc ScheduleConfig) Window() (start, end string) {
	start, end = sc.StartTime, sc.EndTime
	if start == "" {
		start = DefaultWindowStart
	}
	if end == "" {
		end = DefaultWindowEnd
	}
	return start, end
}

// Summary is the one-line form used by the dashboard, e.g. "pump 30s every 1h (06:00-22:00)".
func (sc ScheduleConfig) Summary() string {
	start, end := sc.Window()
	return fmt.Sprintf("%s %s every %s (%s-%s)", sc.TargetSubtype,
		FormatDuration(sc.DurationSeconds), FormatFrequency(sc.FrequencySeconds), start, end)
}

func FormatLighting(l Lighting) string {
	if !l.Enabled || l.OnHour == nil || l.OffHour == nil {
		return "off"
	}
	return fmt.Sprintf("%02d:00-%02d:00", *l.OnHour, *l.OffHour)
}

func FormatEnvironment(e Environment) string {
	var parts []string
	if r := formatRange(e.TempMinF, e.TempMaxF, "°F"); r != "" {
		parts = append(parts, r)
	}
	if r := formatRange(e.HumidityMin, e.HumidityMax, "% RH"); r != "" {
		parts = append(parts, r)
	}
	if e.CoverTrays {
		parts = append(parts, "trays covered")
	}
	return strings.Join(parts, ", ")
}

func formatRange(lo, hi *float64, unit string) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%g-%g%s", *lo, *hi, unit)
	case lo != nil:
		return fmt.Sprintf(">=%g%s", *lo, unit)
	case hi != nil:
		return fmt.Sprintf("<=%g%s", *hi, unit)
	}
	return ""
}
