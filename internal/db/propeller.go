package db

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/uavsizer/internal/core"
)

// PropToken is a propeller designation such as "10x7E": diameter and
// pitch in inches plus a family suffix.
type PropToken struct {
	Diameter float64
	Pitch    float64
	Suffix   string
}

var propTokenRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)x(\d+(?:\.\d+)?)([A-Za-z-]*)$`)

func ParsePropToken(s string) (PropToken, error) {
	m := propTokenRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return PropToken{}, core.OptionError(stage, "prop_recommendation", s, "<diameter>x<pitch><suffix>")
	}
	d, _ := strconv.ParseFloat(m[1], 64)
	p, _ := strconv.ParseFloat(m[2], 64)
	return PropToken{Diameter: d, Pitch: p, Suffix: m[3]}, nil
}

func (t PropToken) String() string {
	return strconv.FormatFloat(t.Diameter, 'f', -1, 64) + "x" + strconv.FormatFloat(t.Pitch, 'f', -1, 64) + t.Suffix
}

// RPMBlock is one "PROP RPM" section of a performance file. Speeds are
// stored in m/s.
type RPMBlock struct {
	RPM     float64
	Columns []string
	Units   []string
	Rows    [][]float64
}

func (b RPMBlock) column(name string) int {
	for i, c := range b.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

func (b RPMBlock) Column(name string) ([]float64, error) {
	i := b.column(name)
	if i < 0 {
		return nil, fmt.Errorf("rpm %g: no column %q", b.RPM, name)
	}
	out := make([]float64, len(b.Rows))
	for r, row := range b.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Peak returns the airspeed (m/s) and value of maximum efficiency.
func (b RPMBlock) Peak() (speed, eta float64, err error) {
	vs, err := b.Column("V")
	if err != nil {
		return 0, 0, err
	}
	es, err := b.Column("Pe")
	if err != nil {
		return 0, 0, err
	}
	if len(es) == 0 {
		return 0, 0, fmt.Errorf("rpm %g: no rows", b.RPM)
	}
	best := 0
	for i := range es {
		if es[i] > es[best] {
			best = i
		}
	}
	return vs[best], es[best], nil
}

type PropTable struct {
	Name   string
	Token  PropToken
	Blocks []RPMBlock
}

const rpmHeader = "PROP RPM"

// ParsePropTable reads a propeller performance file. Velocities are
// converted from mph to m/s; rows with unparseable or non-finite cells
// are skipped.
func ParsePropTable(name string, r io.Reader) (*PropTable, error) {
	tok, err := ParsePropToken(name)
	if err != nil {
		return nil, err
	}
	t := &PropTable{Name: name, Token: tok}

	sc := bufio.NewScanner(r)
	var cur *RPMBlock
	state := 0 // 0 rows, 1 expecting labels, 2 expecting units
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, rpmHeader) {
			_, val, ok := strings.Cut(text, "=")
			rpm, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if !ok || err != nil {
				return nil, fmt.Errorf("%s: bad header %q", name, text)
			}
			t.Blocks = append(t.Blocks, RPMBlock{RPM: rpm})
			cur = &t.Blocks[len(t.Blocks)-1]
			state = 1
			continue
		}
		if cur == nil {
			continue
		}

		fields := strings.Fields(text)
		switch state {
		case 1:
			cur.Columns = fields
			state = 2
		case 2:
			cur.Units = fields
			state = 0
		default:
			if row, ok := parseRow(fields, len(cur.Columns)); ok {
				if v := cur.column("V"); v >= 0 {
					row[v] *= core.MphToMs
				}
				cur.Rows = append(cur.Rows, row)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(t.Blocks) == 0 {
		return nil, fmt.Errorf("%s: no %s blocks", name, rpmHeader)
	}
	return t, nil
}

func parseRow(fields []string, n int) ([]float64, bool) {
	if len(fields) != n {
		return nil, false
	}
	row := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		row[i] = v
	}
	return row, true
}
