package engine

import (
	"testing"
	"time"

	"farmops/pkg/cycle/types"
)

func stage(t types.StageType, start, end int) types.Stage {
	return types.Stage{Type: t, Name: t.Label(), DayStart: start, DayEnd: end}
}

func TestCurrentDayClampsBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for _, d := range []time.Duration{time.Minute, 23 * time.Hour, 48 * time.Hour, 400 * Day} {
		if got := CurrentDay(start, start.Add(-d)); got != 1 {
			t.Fatalf("expected day 1 for now %s before start, got %d", d, got)
		}
	}
}

func TestCurrentDayAdvancesDaily(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if got := CurrentDay(start, start); got != 1 {
		t.Fatalf("expected day 1 at start, got %d", got)
	}
	if got := CurrentDay(start, start.Add(23*time.Hour+59*time.Minute)); got != 1 {
		t.Fatalf("expected day 1 just before 24h, got %d", got)
	}
	if got := CurrentDay(start, start.Add(25*time.Hour)); got != 2 {
		t.Fatalf("expected day 2 after 25h, got %d", got)
	}
	if got := CurrentDay(start, start.Add(10*Day)); got != 11 {
		t.Fatalf("expected day 11 after 10 days, got %d", got)
	}
}

func TestActiveStageFirstMatchWins(t *testing.T) {
	stages := []types.Stage{
		stage(types.StageBlackout, 4, 6),
		stage(types.StageGermination, 1, 20),
	}
	got, ok := ActiveStage(stages, 5)
	if !ok || got.Type != types.StageBlackout {
		t.Fatalf("expected blackout (first stored), got %v %v", got.Type, ok)
	}

	stages[0], stages[1] = stages[1], stages[0]
	got, ok = ActiveStage(stages, 5)
	if !ok || got.Type != types.StageGermination {
		t.Fatalf("expected germination (first stored), got %v %v", got.Type, ok)
	}
}

func TestActiveStageGap(t *testing.T) {
	stages := []types.Stage{
		stage(types.StageGermination, 1, 5),
		stage(types.StageGrowth, 10, 15),
	}
	if got, ok := ActiveStage(stages, 7); ok {
		t.Fatalf("expected no active stage on gap day, got %v", got.Type)
	}
	if _, ok := ActiveStage(stages, 16); ok {
		t.Fatalf("expected no active stage past the last stage")
	}
	if _, ok := ActiveStage(nil, 1); ok {
		t.Fatalf("expected no active stage for empty list")
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct{ day, total, want int }{
		{11, 60, 18},
		{30, 60, 50},
		{60, 60, 100},
		{90, 60, 100},
		{1, 3, 33},
		{1, 0, 0},
	}
	for _, tc := range cases {
		if got := ProgressPercent(tc.day, tc.total); got != tc.want {
			t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tc.day, tc.total, got, tc.want)
		}
	}
}

func TestScenarioCycleStartedTenDaysAgo(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	started := now.Add(-10 * Day)
	stages := []types.Stage{
		stage(types.StageGermination, 1, 7),
		stage(types.StageGrowth, 8, 30),
	}
	day := CurrentDay(started, now)
	if day != 11 {
		t.Fatalf("expected day 11, got %d", day)
	}
	active, ok := ActiveStage(stages, day)
	if !ok || active.Type != types.StageGrowth {
		t.Fatalf("expected growth, got %v", active.Type)
	}
	if p := ProgressPercent(day, 60); p != 18 {
		t.Fatalf("expected 18%%, got %d", p)
	}
}

func TestTimeline(t *testing.T) {
	stages := []types.Stage{
		stage(types.StageGermination, 1, 7),
		stage(types.StageGrowth, 8, 30),
		stage(types.StagePreHarvest, 41, 50),
	}
	tl := Timeline(stages, 11)
	want := []StageStatus{StatusPast, StatusCurrent, StatusUpcoming}
	for i, e := range tl {
		if e.Status != want[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, want[i], e.Status)
		}
	}
	if tl[1].DaysLeft != 20 {
		t.Fatalf("expected 20 days left in growth, got %d", tl[1].DaysLeft)
	}
	if tl[2].DaysLeft != 10 {
		t.Fatalf("expected full 10 days for upcoming stage, got %d", tl[2].DaysLeft)
	}
}
