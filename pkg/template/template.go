// Package template instantiates the stage list of a new grow cycle from a
// named program. Programs come from YAML documents or from CSV/XLSX sheets
// with one row per stage; a built-in microgreens program is always present.
package template

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"farmops/pkg/cycle/types"
)

type Program struct {
	Name      string        `yaml:"name" json:"name"`
	TotalDays int           `yaml:"total_days" json:"total_days"`
	Stages    []types.Stage `yaml:"stages" json:"stages"`
}

type Registry struct {
	programs map[string]Program
}

func NewRegistry() *Registry {
	r := &Registry{programs: map[string]Program{}}
	r.addBuiltin(Microgreens())
	return r
}

func (r *Registry) addBuiltin(prog Program) {
	if err := r.Add(prog); err != nil {
		log.Printf("[template] built-in program rejected: %v", err)
	}
}

// LoadFromFiles builds a registry from the given files, dispatching on the
// extension. A broken file fails the whole load.
func LoadFromFiles(paths ...string) (*Registry, error) {
	r := NewRegistry()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var (
			progs []Program
			err   error
		)
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			progs, err = loadYAML(p)
		case ".csv":
			progs, err = loadCSV(p)
		case ".xlsx":
			progs, err = loadXLSX(p)
		default:
			err = fmt.Errorf("unsupported template file type %q", filepath.Ext(p))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		for _, prog := range progs {
			if err := r.Add(prog); err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
		log.Printf("[template] loaded %d program(s) from %s", len(progs), p)
	}
	return r, nil
}

// Add validates a copy of prog and registers it, replacing any program of the
// same name. prog itself is left untouched.
func (r *Registry) Add(prog Program) error {
	prog.Name = strings.TrimSpace(prog.Name)
	prog.Stages = types.CloneStages(prog.Stages)
	if prog.Name == "" {
		return fmt.Errorf("program without a name")
	}
	if len(prog.Stages) == 0 {
		return fmt.Errorf("program %q has no stages", prog.Name)
	}
	seen := map[types.StageType]bool{}
	last := 0
	for i, st := range prog.Stages {
		if st.Name == "" {
			prog.Stages[i].Name = st.Type.Label()
		}
		if err := st.Validate(); err != nil {
			return fmt.Errorf("program %q stage %d: %w", prog.Name, i+1, err)
		}
		if seen[st.Type] {
			return fmt.Errorf("program %q: stage %q appears twice", prog.Name, st.Type)
		}
		seen[st.Type] = true
		if st.DayEnd > last {
			last = st.DayEnd
		}
	}
	if prog.TotalDays <= 0 {
		prog.TotalDays = last
	}
	r.programs[key(prog.Name)] = prog
	return nil
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.programs))
	for _, p := range r.programs {
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Get(name string) (Program, bool) {
	p, ok := r.programs[key(name)]
	return p, ok
}

// Instantiate returns a private copy of the program's stages and its length.
func (r *Registry) Instantiate(name string) ([]types.Stage, int, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, 0, fmt.Errorf("unknown program %q", name)
	}
	return types.CloneStages(p.Stages), p.TotalDays, nil
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Microgreens is the stock 14-day tray program.
func Microgreens() Program {
	hour := func(v int) *int { return &v }
	deg := func(v float64) *float64 { return &v }
	lightsOn := types.Lighting{Enabled: true, OnHour: hour(6), OffHour: hour(22)}
	mist := types.ScheduleConfig{TargetSubtype: types.ActuatorMist, DurationSeconds: 10, FrequencySeconds: 4 * 3600}
	pump := types.ScheduleConfig{TargetSubtype: types.ActuatorPump, DurationSeconds: 60, FrequencySeconds: 12 * 3600, StartTime: "07:00", EndTime: "19:00"}
	fan := types.ScheduleConfig{TargetSubtype: types.ActuatorFan, DurationSeconds: 15 * 60, FrequencySeconds: 3600}
	return Program{
		Name:      "microgreens",
		TotalDays: 14,
		Stages: []types.Stage{
			{Type: types.StageSeeding, Name: "Seeding", DayStart: 1, DayEnd: 1,
				Environment: types.Environment{TempMinF: deg(68), TempMaxF: deg(75), CoverTrays: true},
				Checklist:   []string{"Soak seeds", "Spread seeds evenly", "Mist and stack trays"}},
			{Type: types.StageGermination, Name: "Germination", DayStart: 2, DayEnd: 3,
				Schedules:   []types.ScheduleConfig{mist},
				Environment: types.Environment{TempMinF: deg(68), TempMaxF: deg(75), HumidityMin: deg(70), HumidityMax: deg(90), CoverTrays: true},
				Checklist:   []string{"Check for mold", "Keep seeds moist"}},
			{Type: types.StageBlackout, Name: "Blackout", DayStart: 4, DayEnd: 5,
				Schedules:   []types.ScheduleConfig{mist},
				Environment: types.Environment{HumidityMin: deg(60), HumidityMax: deg(80), CoverTrays: true},
				Checklist:   []string{"Weight trays", "Check root development"}},
			{Type: types.StageLightExposure, Name: "Light Exposure", DayStart: 6, DayEnd: 7,
				Schedules:   []types.ScheduleConfig{pump, fan},
				Lighting:    lightsOn,
				Environment: types.Environment{TempMinF: deg(65), TempMaxF: deg(75)},
				Checklist:   []string{"Uncover trays", "Start bottom watering"}},
			{Type: types.StageGrowth, Name: "Growth", DayStart: 8, DayEnd: 12,
				Schedules:   []types.ScheduleConfig{pump, fan},
				Lighting:    lightsOn,
				Environment: types.Environment{TempMinF: deg(65), TempMaxF: deg(75), HumidityMin: deg(40), HumidityMax: deg(60)},
				Checklist:   []string{"Rotate trays", "Check for leggy growth"}},
			{Type: types.StagePreHarvest, Name: "Pre-Harvest", DayStart: 13, DayEnd: 13,
				Schedules: []types.ScheduleConfig{fan},
				Lighting:  lightsOn,
				Checklist: []string{"Stop watering 12h before cut"}},
			{Type: types.StageHarvest, Name: "Harvest", DayStart: 14, DayEnd: 14,
				Checklist: []string{"Cut above soil line", "Weigh and log yield", "Refrigerate"}},
		},
	}
}
