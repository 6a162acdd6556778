package template

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"farmops/pkg/cycle/types"
)

func loadYAML(path string) ([]Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Programs []Program `yaml:"programs"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Programs) > 0 {
		return doc.Programs, nil
	}
	var single Program
	if err := yaml.Unmarshal(b, &single); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return []Program{single}, nil
}

func loadCSV(path string) ([]Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return parseRows(rows, baseName(path))
}

// loadXLSX reads the "Stages" sheet, or the first sheet when there is none.
func loadXLSX(path string) ([]Program, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	sheet := ""
	for _, name := range x.GetSheetList() {
		if strings.EqualFold(name, "stages") {
			sheet = name
			break
		}
	}
	if sheet == "" {
		list := x.GetSheetList()
		if len(list) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = list[0]
	}
	rows, err := x.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return parseRows(rows, baseName(path))
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

type columns map[string]int

func (c columns) find(keys ...string) int {
	for _, k := range keys {
		if idx, ok := c[normHeader(k)]; ok {
			return idx
		}
	}
	return -1
}

// parseRows turns a header row plus one row per stage into programs, keeping
// first-seen program order and row order within each program. Rows without
// explicit day_start follow the previous stage of the same program.
func parseRows(rows [][]string, defaultProgram string) ([]Program, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty sheet")
	}
	cols := columns{}
	for i, h := range rows[0] {
		cols[normHeader(h)] = i
	}
	cProgram := cols.find("program", "program_name", "crop")
	cStage := cols.find("stage", "stage_type", "phase")
	cName := cols.find("name", "label", "stage_name")
	cDays := cols.find("days", "duration", "days_in_stage")
	cStart := cols.find("day_start", "start_day", "from_day")
	cEnd := cols.find("day_end", "end_day", "to_day")
	cOn := cols.find("light_on", "lights_on", "on_hour")
	cOff := cols.find("light_off", "lights_off", "off_hour")
	cTMin := cols.find("temp_min_f", "tempmin", "min_temp_f")
	cTMax := cols.find("temp_max_f", "tempmax", "max_temp_f")
	cHMin := cols.find("humidity_min", "rh_min", "min_humidity")
	cHMax := cols.find("humidity_max", "rh_max", "max_humidity")
	cCover := cols.find("cover_trays", "covered", "cover")
	cCheck := cols.find("checklist", "tasks")
	cSched := cols.find("schedules", "schedule")
	cNotes := cols.find("notes", "note", "remark")

	if cStage == -1 || (cDays == -1 && (cStart == -1 || cEnd == -1)) {
		return nil, fmt.Errorf("missing required columns; found %v, need stage and days (or day_start and day_end)", rows[0])
	}

	var order []string
	progs := map[string]*Program{}
	cursor := map[string]int{}

	for n, rec := range rows[1:] {
		line := n + 2
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		if strings.Join(rec, "") == "" {
			continue
		}
		progName := get(cProgram)
		if progName == "" {
			progName = defaultProgram
		}
		st, err := types.ParseStageType(get(cStage))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		stage := types.Stage{Type: st, Name: get(cName), Notes: get(cNotes)}
		if stage.Name == "" {
			stage.Name = st.Label()
		}

		k := key(progName)
		if cursor[k] == 0 {
			cursor[k] = 1
		}
		stage.DayStart = cursor[k]
		if v := get(cStart); v != "" {
			if stage.DayStart, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("row %d: day_start: %w", line, err)
			}
		}
		switch v := get(cEnd); {
		case v != "":
			if stage.DayEnd, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("row %d: day_end: %w", line, err)
			}
		default:
			days, err := strconv.Atoi(get(cDays))
			if err != nil || days <= 0 {
				return nil, fmt.Errorf("row %d: days must be a positive integer, got %q", line, get(cDays))
			}
			stage.DayEnd = stage.DayStart + days - 1
		}
		cursor[k] = stage.DayEnd + 1

		if on, off := get(cOn), get(cOff); on != "" || off != "" {
			stage.Lighting.Enabled = true
			if stage.Lighting.OnHour, err = optInt(on); err != nil {
				return nil, fmt.Errorf("row %d: light_on: %w", line, err)
			}
			if stage.Lighting.OffHour, err = optInt(off); err != nil {
				return nil, fmt.Errorf("row %d: light_off: %w", line, err)
			}
		}
		env := &stage.Environment
		for _, fc := range []struct {
			dst **float64
			col int
		}{{&env.TempMinF, cTMin}, {&env.TempMaxF, cTMax}, {&env.HumidityMin, cHMin}, {&env.HumidityMax, cHMax}} {
			if *fc.dst, err = optFloat(get(fc.col)); err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", line, rows[0][fc.col], err)
			}
		}
		env.CoverTrays = truthy(get(cCover))
		stage.Checklist = splitList(get(cCheck))
		if stage.Schedules, err = ParseSchedules(get(cSched)); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		p, ok := progs[k]
		if !ok {
			p = &Program{Name: progName}
			progs[k] = p
			order = append(order, k)
		}
		p.Stages = append(p.Stages, stage)
	}

	out := make([]Program, 0, len(order))
	for _, k := range order {
		out = append(out, *progs[k])
	}
	return out, nil
}

// ParseSchedules reads the compact cell form used in sheets:
//
//	pump:30/3600@06:00-22:00; mist:10/900
//
// i.e. actuator:duration/frequency in seconds with an optional window.
func ParseSchedules(cell string) ([]types.ScheduleConfig, error) {
	var out []types.ScheduleConfig
	for _, part := range splitList(cell) {
		sub, rest, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("schedule %q: want actuator:duration/frequency", part)
		}
		sc := types.ScheduleConfig{TargetSubtype: types.ActuatorSubtype(strings.ToLower(strings.TrimSpace(sub)))}
		timing, window, hasWindow := strings.Cut(rest, "@")
		dur, freq, ok := strings.Cut(timing, "/")
		if !ok {
			return nil, fmt.Errorf("schedule %q: want duration/frequency", part)
		}
		var err error
		if sc.DurationSeconds, err = strconv.Atoi(strings.TrimSpace(dur)); err != nil {
			return nil, fmt.Errorf("schedule %q: duration: %w", part, err)
		}
		if sc.FrequencySeconds, err = strconv.Atoi(strings.TrimSpace(freq)); err != nil {
			return nil, fmt.Errorf("schedule %q: frequency: %w", part, err)
		}
		if hasWindow {
			start, end, ok := strings.Cut(window, "-")
			if !ok {
				return nil, fmt.Errorf("schedule %q: window wants HH:MM-HH:MM", part)
			}
			sc.StartTime, sc.EndTime = strings.TrimSpace(start), strings.TrimSpace(end)
		}
		out = append(out, sc)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' || r == '\n' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func optInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "x":
		return true
	}
	return false
}
