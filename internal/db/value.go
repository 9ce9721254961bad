package db

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	Number Kind = iota
	Int
	String
	FloatList
	IntList
	StringList
	Bool
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Int:
		return "int"
	case String:
		return "string"
	case FloatList:
		return "float_list"
	case IntList:
		return "int_list"
	case StringList:
		return "string_list"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is one typed CSV cell.
type Value struct {
	Kind    Kind
	Num     float64
	Int     int
	Str     string
	Floats  []float64
	Ints    []int
	Strings []string
	Bool    bool
}

var dimensionsRe = regexp.MustCompile(`^[\d.]+(x[\d.]+)+$`)

// ParseValue applies the database typing rules in order: quoted string,
// x-separated numbers, slash-separated strings, bool, number, string.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return Value{Kind: String, Str: strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)}
	}

	if dimensionsRe.MatchString(s) {
		if v, ok := parseNumberList(s); ok {
			return v
		}
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return Value{Kind: StringList, Strings: parts}
	}

	switch strings.ToLower(s) {
	case "true":
		return Value{Kind: Bool, Bool: true}
	case "false":
		return Value{Kind: Bool, Bool: false}
	}

	if i, err := strconv.Atoi(s); err == nil {
		return Value{Kind: Int, Int: i}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Value{Kind: Number, Num: f}
	}
	return Value{Kind: String, Str: s}
}

func parseNumberList(s string) (Value, bool) {
	parts := strings.Split(s, "x")
	if !strings.Contains(s, ".") {
		ints := make([]int, len(parts))
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return Value{}, false
			}
			ints[i] = n
		}
		return Value{Kind: IntList, Ints: ints}, true
	}
	floats := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Value{}, false
		}
		floats[i] = f
	}
	return Value{Kind: FloatList, Floats: floats}, true
}

// formatFloat always keeps a decimal point so the value reparses as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// String renders v so that ParseValue(v.String()) yields an equal value.
func (v Value) String() string {
	switch v.Kind {
	case Number:
		return formatFloat(v.Num)
	case Int:
		return strconv.Itoa(v.Int)
	case FloatList:
		parts := make([]string, len(v.Floats))
		for i, f := range v.Floats {
			parts[i] = formatFloat(f)
		}
		return strings.Join(parts, "x")
	case IntList:
		parts := make([]string, len(v.Ints))
		for i, n := range v.Ints {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, "x")
	case StringList:
		return strings.Join(v.Strings, "/")
	case Bool:
		return strconv.FormatBool(v.Bool)
	}
	if ParseValue(v.Str).Kind != String || strings.HasPrefix(v.Str, `"`) {
		return `"` + strings.ReplaceAll(v.Str, `"`, `""`) + `"`
	}
	return v.Str
}

// Float returns numeric values as float64.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case Number:
		return v.Num, true
	case Int:
		return float64(v.Int), true
	}
	return 0, false
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Number:
		return json.Marshal(v.Num)
	case Int:
		return json.Marshal(v.Int)
	case FloatList:
		return json.Marshal(v.Floats)
	case IntList:
		return json.Marshal(v.Ints)
	case StringList:
		return json.Marshal(v.Strings)
	case Bool:
		return json.Marshal(v.Bool)
	}
	return json.Marshal(v.Str)
}
