package centinel

import (
	"bufio"
	"fmt"
	"io"
)

// Separator selects the field delimiter a Writer emits between values.
type Separator int

const (
	SepSpace Separator = iota
	SepTab
	SepComma
	SepNewline
	// SepCentinel emits the full self-describing '|'-delimited format
	// Read understands, one index column per dimension followed by a
	// single value column.
	SepCentinel
)

func (s Separator) delimiter() string {
	switch s {
	case SepTab:
		return "\t"
	case SepComma:
		return ","
	case SepNewline:
		return "\n"
	default:
		return " "
	}
}

// Write serializes t using sep. SepCentinel reproduces the header/data-
// row format Read parses; every other separator emits a flat,
// comment-free list of values in row-major order, one per field,
// delimited by sep and terminated by a trailing newline.
func Write(w io.Writer, t *Table, sep Separator) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if sep != SepCentinel {
		delim := sep.delimiter()
		for i, v := range t.Values {
			if i > 0 {
				if _, err := bw.WriteString(delim); err != nil {
					return err
				}
			}
			fmt.Fprintf(bw, "%g", v)
		}
		bw.WriteString("\n")
		return nil
	}

	return writeCentinel(bw, t)
}

func writeCentinel(w *bufio.Writer, t *Table) error {
	for _, d := range t.Shape {
		fmt.Fprintf(w, "|%c", byte(d.Label))
	}
	fmt.Fprint(w, "|v|\n")

	idx := make([]int, len(t.Shape))
	var walk func(pos int) error
	walk = func(pos int) error {
		if pos == len(t.Shape) {
			for _, d := range idx {
				fmt.Fprintf(w, "|%d", d)
			}
			fmt.Fprintf(w, "|%g|\n", t.At(idx...))
			return nil
		}
		for i := 0; i < t.Shape[pos].Size; i++ {
			idx[pos] = i
			if err := walk(pos + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}
