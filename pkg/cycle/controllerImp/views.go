package controllerImp

import (
	"time"

	"farmops/entities"
	"farmops/pkg/cycle/engine"
	"farmops/pkg/cycle/types"
)

type scheduleView struct {
	types.ScheduleConfig
	Summary    string    `json:"summary"`
	Duration   string    `json:"duration"`
	Frequency  string    `json:"frequency"`
	Window     [2]string `json:"window"`
	Advisories []string  `json:"advisories,omitempty"`
}

type stageView struct {
	types.Stage
	Label           string         `json:"label"`
	Icon            string         `json:"icon"`
	Color           string         `json:"color"`
	ScheduleViews   []scheduleView `json:"schedule_views"`
	LightingText    string         `json:"lighting_text"`
	EnvironmentText string         `json:"environment_text"`
}

type timelineView struct {
	stageView
	Status   engine.StageStatus `json:"status"`
	DaysLeft int                `json:"days_left"`
}

type cycleSummary struct {
	ID          string               `json:"id"`
	ProgramName string               `json:"program_name"`
	DeviceID    string               `json:"device_id"`
	Status      entities.CycleStatus `json:"status"`
	StartedAt   time.Time            `json:"started_at"`
	TotalDays   int                  `json:"total_days"`
	Revision    int64                `json:"revision"`
	CurrentDay  int                  `json:"current_day"`
	Progress    int                  `json:"progress_percent"`
	ActiveStage *types.StageType     `json:"active_stage"`
}

type cycleView struct {
	cycleSummary
	Active   *stageView     `json:"active"`
	Timeline []timelineView `json:"timeline"`
}

func newStageView(s types.Stage) stageView {
	info, _ := s.Type.Info()
	v := stageView{
		Stage:           s,
		Label:           info.Label,
		Icon:            info.Icon,
		Color:           info.Color,
		ScheduleViews:   make([]scheduleView, 0, len(s.Schedules)),
		LightingText:    types.FormatLighting(s.Lighting),
		EnvironmentText: types.FormatEnvironment(s.Environment),
	}
	for _, sc := range s.Schedules {
		start, end := sc.Window()
		v.ScheduleViews = append(v.ScheduleViews, scheduleView{
			ScheduleConfig: sc,
			Summary:        sc.Summary(),
			Duration:       types.FormatDuration(sc.DurationSeconds),
			Frequency:      types.FormatFrequency(sc.FrequencySeconds),
			Window:         [2]string{start, end},
			Advisories:     sc.Advisories(),
		})
	}
	return v
}

func summarize(c *entities.GrowCycle, now time.Time) cycleSummary {
	day := engine.CurrentDay(c.StartedAt, now)
	s := cycleSummary{
		ID:          c.ID,
		ProgramName: c.ProgramName,
		DeviceID:    c.DeviceID,
		Status:      c.Status,
		StartedAt:   c.StartedAt,
		TotalDays:   c.TotalDays,
		Revision:    c.Revision,
		CurrentDay:  day,
		Progress:    engine.ProgressPercent(day, c.TotalDays),
	}
	if st, ok := engine.ActiveStage(c.Stages, day); ok {
		t := st.Type
		s.ActiveStage = &t
	}
	return s
}

func viewCycle(c *entities.GrowCycle, now time.Time) cycleView {
	v := cycleView{cycleSummary: summarize(c, now), Timeline: []timelineView{}}
	day := v.CurrentDay
	if st, ok := engine.ActiveStage(c.Stages, day); ok {
		sv := newStageView(st)
		v.Active = &sv
	}
	for _, e := range engine.Timeline(c.Stages, day) {
		v.Timeline = append(v.Timeline, timelineView{stageView: newStageView(e.Stage), Status: e.Status, DaysLeft: e.DaysLeft})
	}
	return v
}
