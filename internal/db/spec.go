package db

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/uavsizer/internal/core"
)

const stage = "db"

type Field struct {
	Name  string
	Value Value
}

// Spec is one component record: an ordered list of typed fields.
type Spec struct {
	Name   string
	Fields []Field
}

const bom = "\uFEFF"

// ParseSpec reads field,value rows. A UTF-8 byte-order mark is skipped.
func ParseSpec(name string, r io.Reader) (Spec, error) {
	spec := Spec{Name: name}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if line == 1 {
			text = strings.TrimPrefix(text, bom)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		field, raw, ok := strings.Cut(text, ",")
		if !ok {
			return Spec{}, fmt.Errorf("%s: line %d: expected field,value", name, line)
		}
		spec.Fields = append(spec.Fields, Field{Name: strings.TrimSpace(field), Value: ParseValue(raw)})
	}
	if err := sc.Err(); err != nil {
		return Spec{}, fmt.Errorf("%s: %w", name, err)
	}
	return spec, nil
}

// Format writes the spec back as field,value rows.
func (s Spec) Format(w io.Writer) error {
	for _, f := range s.Fields {
		if _, err := fmt.Fprintf(w, "%s,%s\n", f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s Spec) Get(name string) (Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

func (s Spec) missing(field string) error {
	return &core.StageError{Stage: stage, Parameter: field, Value: s.Name, Message: "missing field", Err: core.ErrConfig}
}

func (s Spec) mistyped(field string, v Value, want string) error {
	return &core.StageError{
		Stage:        stage,
		Parameter:    field,
		Value:        v.String(),
		AllowedRange: want,
		Message:      fmt.Sprintf("%s: field has type %s", s.Name, v.Kind),
		Err:          core.ErrConfig,
	}
}

func (s Spec) Number(field string) (float64, error) {
	v, ok := s.Get(field)
	if !ok {
		return 0, s.missing(field)
	}
	f, ok := v.Float()
	if !ok {
		return 0, s.mistyped(field, v, "number")
	}
	return f, nil
}

func (s Spec) Text(field string) (string, error) {
	v, ok := s.Get(field)
	if !ok {
		return "", s.missing(field)
	}
	if v.Kind != String {
		return v.String(), nil
	}
	return v.Str, nil
}

// Strings accepts a string list or a single string.
func (s Spec) Strings(field string) ([]string, error) {
	v, ok := s.Get(field)
	if !ok {
		return nil, s.missing(field)
	}
	switch v.Kind {
	case StringList:
		return v.Strings, nil
	case String:
		return []string{v.Str}, nil
	}
	return nil, s.mistyped(field, v, "string list")
}

// Floats accepts float or int lists.
func (s Spec) Floats(field string) ([]float64, error) {
	v, ok := s.Get(field)
	if !ok {
		return nil, s.missing(field)
	}
	switch v.Kind {
	case FloatList:
		return v.Floats, nil
	case IntList:
		out := make([]float64, len(v.Ints))
		for i, n := range v.Ints {
			out[i] = float64(n)
		}
		return out, nil
	}
	return nil, s.mistyped(field, v, "number list")
}

func (s Spec) Bool(field string) (bool, error) {
	v, ok := s.Get(field)
	if !ok {
		return false, s.missing(field)
	}
	if v.Kind != Bool {
		return false, s.mistyped(field, v, "bool")
	}
	return v.Bool, nil
}

// Label is the "name" field when present, else the record name.
func (s Spec) Label() string {
	if name, err := s.Text("name"); err == nil {
		return name
	}
	return s.Name
}

func (s Spec) MarshalJSON() ([]byte, error) {
	fields := make(map[string]Value, len(s.Fields))
	for _, f := range s.Fields {
		fields[f.Name] = f.Value
	}
	return json.Marshal(struct {
		Name   string           `json:"name"`
		Fields map[string]Value `json:"fields"`
	}{s.Name, fields})
}
