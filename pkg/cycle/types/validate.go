package types

import (
	"fmt"
	"time"
)

// ValidationError names the first field of a stage that breaks an invariant.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the stage invariants and returns a *ValidationError or nil.
func (s Stage) Validate() error {
	if !s.Type.Valid() {
		return invalid("type", "unknown stage type %q", s.Type)
	}
	if s.DayStart < 1 {
		return invalid("day_start", "must be >= 1, got %d", s.DayStart)
	}
	if s.DayEnd < s.DayStart {
		return invalid("day_end", "must be >= day_start (%d), got %d", s.DayStart, s.DayEnd)
	}
	for i, sc := range s.Schedules {
		if err := sc.validate(fmt.Sprintf("schedules[%d]", i)); err != nil {
			return err
		}
	}
	if err := s.Lighting.validate(); err != nil {
		return err
	}
	return s.Environment.validate()
}

func (sc ScheduleConfig) validate(prefix string) error {
	if !sc.TargetSubtype.Valid() {
		return invalid(prefix+".target_subtype", "unknown actuator %q", sc.TargetSubtype)
	}
	if sc.DurationSeconds <= 0 {
		return invalid(prefix+".duration_seconds", "must be positive, got %d", sc.DurationSeconds)
	}
	if sc.FrequencySeconds <= 0 {
		return invalid(prefix+".frequency_seconds", "must be positive, got %d", sc.FrequencySeconds)
	}
	if sc.StartTime != "" {
		if _, err := ParseClock(sc.StartTime); err != nil {
			return invalid(prefix+".start_time", "%v", err)
		}
	}
	if sc.EndTime != "" {
		if _, err := ParseClock(sc.EndTime); err != nil {
			return invalid(prefix+".end_time", "%v", err)
		}
	}
	return nil
}

func (l Lighting) validate() error {
	if !l.Enabled {
		if l.OnHour != nil {
			return invalid("lighting.on_hour", "must be absent when lighting is disabled")
		}
		if l.OffHour != nil {
			return invalid("lighting.off_hour", "must be absent when lighting is disabled")
		}
		return nil
	}
	if l.OnHour == nil {
		return invalid("lighting.on_hour", "required when lighting is enabled")
	}
	if l.OffHour == nil {
		return invalid("lighting.off_hour", "required when lighting is enabled")
	}
	if *l.OnHour < 0 || *l.OnHour > 23 {
		return invalid("lighting.on_hour", "must be within 0-23, got %d", *l.OnHour)
	}
	if *l.OffHour < 0 || *l.OffHour > 23 {
		return invalid("lighting.off_hour", "must be within 0-23, got %d", *l.OffHour)
	}
	return nil
}

func (e Environment) validate() error {
	if e.TempMinF != nil && e.TempMaxF != nil && *e.TempMinF > *e.TempMaxF {
		return invalid("environment.temp_min_f", "must be <= temp_max_f (%g), got %g", *e.TempMaxF, *e.TempMinF)
	}
	if e.HumidityMin != nil && e.HumidityMax != nil && *e.HumidityMin > *e.HumidityMax {
		return invalid("environment.humidity_min", "must be <= humidity_max (%g), got %g", *e.HumidityMax, *e.HumidityMin)
	}
	return nil
}

// Advisories reports schedule properties that are expected but deliberately
// not enforced by Validate.
func (sc ScheduleConfig) Advisories() []string {
	var out []string
	if sc.DurationSeconds > 0 && sc.FrequencySeconds > 0 && sc.FrequencySeconds < sc.DurationSeconds {
		out = append(out, fmt.Sprintf("%s runs %s every %s; activations will overlap",
			sc.TargetSubtype, FormatDuration(sc.DurationSeconds), FormatFrequency(sc.FrequencySeconds)))
	}
	start, end := sc.Window()
	s, errS := ParseClock(start)
	e, errE := ParseClock(end)
	if errS == nil && errE == nil && s >= e {
		out = append(out, fmt.Sprintf("%s window %s-%s does not end after it starts", sc.TargetSubtype, start, end))
	}
	return out
}

// ParseClock parses a strict "HH:MM" value into the offset from midnight.
func ParseClock(v string) (time.Duration, error) {
	if len(v) != 5 {
		return 0, fmt.Errorf("want HH:MM, got %q", v)
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", v)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
