package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/weight"
)

// InputSheet is the worksheet holding the field/value input rows.
const InputSheet = "export_ready_inputs"

var spreadsheetFields = []string{
	"performance_goal", "goal_value", "weight_target", "target_value",
	"payload_type", "configuration", "handlaunch", "portable",
}

// LoadSpreadsheet reads the mission from the first worksheet of an XLSX file.
func LoadSpreadsheet(path string) (Mission, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mission{}, err
	}
	defer f.Close()
	return ReadSpreadsheet(f)
}

func ReadSpreadsheet(r io.Reader) (Mission, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Mission{}, fmt.Errorf("spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet != InputSheet {
		return Mission{}, core.ConfigError(stage, fmt.Sprintf("first worksheet is %q, want %q", sheet, InputSheet))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Mission{}, err
	}

	values := make(map[string]db.Value)
	for _, row := range rows {
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		values[strings.TrimSpace(row[0])] = db.ParseValue(strings.TrimSpace(row[1]))
	}
	for _, name := range spreadsheetFields {
		if _, ok := values[name]; !ok {
			return Mission{}, core.ConfigError(stage, "spreadsheet is missing field "+name)
		}
	}

	m := Mission{
		Goal:          loading.Goal(strings.ToLower(values["performance_goal"].Str)),
		WeightTarget:  weight.Target(strings.ToLower(values["weight_target"].Str)),
		Payload:       strings.ToLower(values["payload_type"].Str),
		Configuration: core.Configuration(strings.ToLower(values["configuration"].Str)),
		Handlaunch:    values["handlaunch"].Bool,
		Portable:      values["portable"].Bool,
	}
	if m.GoalValue, err = number(values, "goal_value"); err != nil {
		return Mission{}, err
	}
	if m.TargetValue, err = number(values, "target_value"); err != nil {
		return Mission{}, err
	}
	if u, ok := values["goal_unit"]; ok {
		m.GoalUnit = u.Str
	}
	return m, nil
}

func number(values map[string]db.Value, name string) (float64, error) {
	v := values[name]
	f, ok := v.Float()
	if !ok {
		return 0, core.DomainError(stage, name, v.String(), "a number")
	}
	return f, nil
}

// WriteSpreadsheet writes m as an input workbook readable by LoadSpreadsheet.
func WriteSpreadsheet(w io.Writer, m Mission) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InputSheet); err != nil {
		return err
	}
	rows := [][]any{
		{"performance_goal", string(m.Goal)},
		{"goal_value", m.GoalValue},
		{"goal_unit", m.GoalUnit},
		{"weight_target", string(m.WeightTarget)},
		{"target_value", m.TargetValue},
		{"payload_type", m.Payload},
		{"configuration", string(m.Configuration)},
		{"handlaunch", fmt.Sprint(m.Handlaunch)},
		{"portable", fmt.Sprint(m.Portable)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(InputSheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
