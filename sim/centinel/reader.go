package centinel

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tbsim/tbsim/sim"
)

// Rescale is an optional linear transform applied to every value read
// from a Centinel file, matching the source's "r=x*m+b" (or "/m", "-b")
// parameter syntax. Truncate additionally rounds the transformed value
// to the nearest integer, the source's "n" (versus "x") value-kind flag.
type Rescale struct {
	Multiply  float64
	Add       float64
	Truncate  bool
}

func (r Rescale) apply(x float64) float64 {
	v := x*r.Multiply + r.Add
	if r.Truncate {
		return float64(int64(v + 0.5))
	}
	return v
}

// identityRescale leaves values unchanged: Multiply=1, Add=0.
var identityRescale = Rescale{Multiply: 1}

// column describes one field of the header line: either an index
// column (IsIndex true, Label names the dimension it selects) or a
// frozen column (IsIndex false, Label and Frozen give the dimension and
// the fixed index value every row's data in that column belongs to).
type column struct {
	IsIndex bool
	Label   Dim
	Frozen  int
}

// Read parses a Centinel-format table from r into a Table of the given
// shape, applying rescale to every data value (pass identityRescale, or
// the zero Rescale with Multiply set to 1, for no transform).
//
// Lines not starting with '|' are comments and are skipped. The first
// '|' line is the column-header line; every subsequent '|' line is a
// data row. A header field naming a bare dimension letter ("a") is an
// index column: its value on each row selects that dimension's index
// for the row's data columns. A header field naming a letter followed
// by digits ("b0") freezes that row's data for dimension b at that
// fixed index. The remaining header field(s) are data columns, each
// itself optionally a frozen-dimension spec or the bare label "v" for
// an unlabelled value column.
func Read(r io.Reader, shape Shape, rescale Rescale) (*Table, error) {
	t := NewTable(shape)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []column
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.HasPrefix(line, "|") {
			continue
		}
		fields := strings.Split(strings.TrimPrefix(line, "|"), "|")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		if header == nil {
			h, err := parseHeader(fields)
			if err != nil {
				sim.Fatalf(sim.CodeFileBadFormat, fmt.Sprintf("centinel header error at line %d: %v", lineNo, err))
			}
			header = h
			continue
		}

		if err := readDataRow(t, header, fields, rescale); err != nil {
			sim.Fatalf(sim.CodeFileBadFormat, fmt.Sprintf("centinel data error at line %d: %v", lineNo, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if header == nil {
		sim.Fatalf(sim.CodeFileNoData, "centinel file contained no header line")
	}
	return t, nil
}

// valueColumnLabel marks the unlabelled value column Write emits; it
// never names an actual dimension, so it is never an index column.
const valueColumnLabel = Dim('v')

func parseHeader(fields []string) ([]column, error) {
	var cols []column
	for _, f := range fields {
		if f == "" {
			continue
		}
		label := Dim(f[0])
		rest := f[1:]
		if rest == "" {
			if label == valueColumnLabel {
				cols = append(cols, column{IsIndex: false, Label: label})
				continue
			}
			cols = append(cols, column{IsIndex: true, Label: label})
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("malformed column header %q", f)
		}
		cols = append(cols, column{IsIndex: false, Label: label, Frozen: n})
	}
	return cols, nil
}

func readDataRow(t *Table, header []column, fields []string, rescale Rescale) error {
	idx := make(map[Dim]int, len(header))
	for _, c := range header {
		if !c.IsIndex {
			idx[c.Label] = c.Frozen
		}
	}

	// Collect, for each index column, the list of row indices its cell
	// broadcasts to (usually exactly one).
	broadcasts := make(map[Dim][]int)
	dataCols := make([]int, 0, len(header))
	for i, c := range header {
		if c.IsIndex {
			if i >= len(fields) {
				return fmt.Errorf("row is missing an index column")
			}
			list, err := parseIndexList(fields[i])
			if err != nil {
				return err
			}
			broadcasts[c.Label] = list
		} else {
			dataCols = append(dataCols, i)
		}
	}

	// Expand the cartesian product of all index-column broadcast lists,
	// writing the same row's value to every combination.
	labels := make([]Dim, 0, len(broadcasts))
	for d := range broadcasts {
		labels = append(labels, d)
	}

	var assign func(pos int)
	current := map[Dim]int{}
	for k, v := range idx {
		current[k] = v
	}
	assign = func(pos int) {
		if pos == len(labels) {
			for _, ci := range dataCols {
				if ci >= len(fields) {
					continue
				}
				v, err := strconv.ParseFloat(fields[ci], 64)
				if err != nil {
					continue
				}
				current[header[ci].Label] = header[ci].Frozen
				order := make([]int, len(t.Shape))
				for i, s := range t.Shape {
					order[i] = current[s.Label]
				}
				t.Set(rescale.apply(v), order...)
			}
			return
		}
		d := labels[pos]
		for _, v := range broadcasts[d] {
			current[d] = v
			assign(pos + 1)
		}
	}
	assign(0)
	return nil
}

// parseIndexList parses one index cell, a comma-separated list of
// either plain integers or "A~B" inclusive ranges, matching the
// source's broadcast syntax (e.g. "0,3~5,2" expands to 0,3,4,5,2).
func parseIndexList(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if i := strings.Index(tok, "~"); i >= 0 {
			lo, err1 := strconv.Atoi(tok[:i])
			hi, err2 := strconv.Atoi(tok[i+1:])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("malformed index range %q", tok)
			}
			for v := lo; v <= hi; v++ {
				out = append(out, v)
			}
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("malformed index %q", tok)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseRescale parses an "r=x*m+b" / "r=x/m-b" / "r=n*m+b" style
// rescale parameter value (the part after "r="), matching the source's
// linear-transform-on-read syntax. The leading variable name is "x" for
// a plain float transform or "n" to also truncate to the nearest
// integer.
func ParseRescale(spec string) (Rescale, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return identityRescale, nil
	}
	truncate := strings.HasPrefix(spec, "n")
	if !truncate && !strings.HasPrefix(spec, "x") {
		return Rescale{}, fmt.Errorf("rescale spec must start with 'x' or 'n': %q", spec)
	}
	rest := spec[1:]

	mult := 1.0
	add := 0.0
	switch {
	case strings.HasPrefix(rest, "*"):
		rest = rest[1:]
		m, b, err := splitAdd(rest)
		if err != nil {
			return Rescale{}, err
		}
		mult, add = m, b
	case strings.HasPrefix(rest, "/"):
		rest = rest[1:]
		m, b, err := splitAdd(rest)
		if err != nil {
			return Rescale{}, err
		}
		if m == 0 {
			return Rescale{}, fmt.Errorf("rescale divisor is zero")
		}
		mult, add = 1/m, b
	default:
		return Rescale{}, fmt.Errorf("rescale spec missing '*' or '/': %q", spec)
	}
	return Rescale{Multiply: mult, Add: add, Truncate: truncate}, nil
}

func splitAdd(rest string) (m, b float64, err error) {
	sign := 1.0
	i := strings.IndexAny(rest, "+-")
	numPart := rest
	if i > 0 {
		numPart = rest[:i]
		b, err = strconv.ParseFloat(rest[i+1:], 64)
		if err != nil {
			return 0, 0, err
		}
		if rest[i] == '-' {
			sign = -1
		}
		b *= sign
	}
	m, err = strconv.ParseFloat(numPart, 64)
	return m, b, err
}
