package types

import (
	"fmt"
	"strings"
)

type StageType string

const (
	StageSeeding       StageType = "seeding"
	StageGermination   StageType = "germination"
	StageBlackout      StageType = "blackout"
	StageLightExposure StageType = "light_exposure"
	StageGrowth        StageType = "growth"
	StagePreHarvest    StageType = "pre_harvest"
	StageHarvest       StageType = "harvest"
)

// StageInfo is the presentation data attached to each stage kind.
type StageInfo struct {
	Type  StageType `json:"type"`
	Label string    `json:"label"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}

// stageCatalog is kept in canonical cycle order.
var stageCatalog = []StageInfo{
	{StageSeeding, "Seeding", "seed", "#8d6e63"},
	{StageGermination, "Germination", "sprout", "#9ccc65"},
	{StageBlackout, "Blackout", "moon", "#455a64"},
	{StageLightExposure, "Light Exposure", "sun", "#ffca28"},
	{StageGrowth, "Growth", "leaf", "#43a047"},
	{StagePreHarvest, "Pre-Harvest", "clock", "#fb8c00"},
	{StageHarvest, "Harvest", "scissors", "#e53935"},
}

func StageCatalog() []StageInfo { return append([]StageInfo(nil), stageCatalog...) }

func (t StageType) Info() (StageInfo, bool) {
	for _, si := range stageCatalog {
		if si.Type == t {
			return si, true
		}
	}
	return StageInfo{}, false
}

func (t StageType) Valid() bool { _, ok := t.Info(); return ok }

func (t StageType) Label() string {
	if si, ok := t.Info(); ok {
		return si.Label
	}
	return string(t)
}

// ParseStageType accepts the stored tag as well as loose spellings
// ("Light Exposure", "pre-harvest").
func ParseStageType(s string) (StageType, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	if t := StageType(k); t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown stage type %q", s)
}

type ActuatorSubtype string

const (
	ActuatorPump  ActuatorSubtype = "pump"
	ActuatorMist  ActuatorSubtype = "mist"
	ActuatorFan   ActuatorSubtype = "fan"
	ActuatorValve ActuatorSubtype = "valve"
	ActuatorLight ActuatorSubtype = "light"
)

func (a ActuatorSubtype) Valid() bool {
	switch a {
	case ActuatorPump, ActuatorMist, ActuatorFan, ActuatorValve, ActuatorLight:
		return true
	}
	return false
}

// ScheduleConfig is one actuator duty cycle within a stage.
// FrequencySeconds >= DurationSeconds is expected but not enforced, see Advisories.
type ScheduleConfig struct {
	TargetSubtype    ActuatorSubtype `json:"target_subtype" yaml:"target_subtype"`
	DurationSeconds  int             `json:"duration_seconds" yaml:"duration_seconds"`
	FrequencySeconds int             `json:"frequency_seconds" yaml:"frequency_seconds"`
	StartTime        string          `json:"start_time,omitempty" yaml:"start_time,omitempty"` // HH:MM
	EndTime          string          `json:"end_time,omitempty" yaml:"end_time,omitempty"`     // HH:MM
}

type Lighting struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	OnHour  *int `json:"on_hour,omitempty" yaml:"on_hour,omitempty"`
	OffHour *int `json:"off_hour,omitempty" yaml:"off_hour,omitempty"`
}

type Environment struct {
	TempMinF    *float64 `json:"temp_min_f,omitempty" yaml:"temp_min_f,omitempty"`
	TempMaxF    *float64 `json:"temp_max_f,omitempty" yaml:"temp_max_f,omitempty"`
	HumidityMin *float64 `json:"humidity_min,omitempty" yaml:"humidity_min,omitempty"`
	HumidityMax *float64 `json:"humidity_max,omitempty" yaml:"humidity_max,omitempty"`
	CoverTrays  bool     `json:"cover_trays" yaml:"cover_trays"`
}

// Stage is a named inclusive day range of a grow cycle. Type is its identity
// inside a cycle; edits replace the whole value.
type Stage struct {
	Type        StageType        `json:"type" yaml:"type"`
	Name        string           `json:"name" yaml:"name"`
	DayStart    int              `json:"day_start" yaml:"day_start"`
	DayEnd      int              `json:"day_end" yaml:"day_end"`
	Schedules   []ScheduleConfig `json:"schedules" yaml:"schedules"`
	Lighting    Lighting         `json:"lighting" yaml:"lighting"`
	Environment Environment      `json:"environment" yaml:"environment"`
	Checklist   []string         `json:"checklist" yaml:"checklist"`
	Notes       string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (s Stage) Contains(day int) bool { return day >= s.DayStart && day <= s.DayEnd }

func (s Stage) Days() int { return s.DayEnd - s.DayStart + 1 }

// Clone returns a copy that shares no slices or pointers with s.
func (s Stage) Clone() Stage {
	out := s
	if s.Schedules != nil {
		out.Schedules = append([]ScheduleConfig(nil), s.Schedules...)
	}
	if s.Checklist != nil {
		out.Checklist = append([]string(nil), s.Checklist...)
	}
	out.Lighting.OnHour = cloneInt(s.Lighting.OnHour)
	out.Lighting.OffHour = cloneInt(s.Lighting.OffHour)
	out.Environment.TempMinF = cloneFloat(s.Environment.TempMinF)
	out.Environment.TempMaxF = cloneFloat(s.Environment.TempMaxF)
	out.Environment.HumidityMin = cloneFloat(s.Environment.HumidityMin)
	out.Environment.HumidityMax = cloneFloat(s.Environment.HumidityMax)
	return out
}

func CloneStages(in []Stage) []Stage {
	if in == nil {
		return nil
	}
	out := make([]Stage, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
