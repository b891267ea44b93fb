// Package frame holds the row/column shape that every matrix in this module
// is exported as: a named table of nullable floats with string labels on both
// axes.
package frame

import (
	"fmt"
	"strconv"

	"gopkg.in/guregu/null.v3"
)

// Frame is a labelled table. Values[i][j] is the cell at Index[i] and
// Columns[j]. A cell with Valid == false is missing, which is distinct from
// a legitimate zero.
type Frame struct {
	Name    string
	Corner  string
	Index   []string
	Columns []string
	Values  [][]null.Float

	rowPos map[string]int
	colPos map[string]int
}

// New returns a frame with every cell missing.
func New(name string, index, columns []string) *Frame {
	f := &Frame{
		Name:    name,
		Index:   append([]string(nil), index...),
		Columns: append([]string(nil), columns...),
		Values:  make([][]null.Float, len(index)),
		rowPos:  make(map[string]int, len(index)),
		colPos:  make(map[string]int, len(columns)),
	}

	for i, label := range f.Index {
		f.Values[i] = make([]null.Float, len(columns))
		f.rowPos[label] = i
	}
	for j, label := range f.Columns {
		f.colPos[label] = j
	}

	return f
}

// Set stores v at the labelled cell.
func (f *Frame) Set(row, col string, v null.Float) error {
	i, j, err := f.pos(row, col)
	if err != nil {
		return err
	}
	f.Values[i][j] = v

	return nil
}

// At returns the labelled cell.
func (f *Frame) At(row, col string) (null.Float, error) {
	i, j, err := f.pos(row, col)
	if err != nil {
		return null.Float{}, err
	}

	return f.Values[i][j], nil
}

// Row returns a copy of the cells of one row, in column order.
func (f *Frame) Row(row string) ([]null.Float, error) {
	i, ok := f.rowPos[row]
	if !ok {
		return nil, fmt.Errorf("frame %q has no row %q", f.Name, row)
	}

	return append([]null.Float(nil), f.Values[i]...), nil
}

// Col returns a copy of the cells of one column, in index order.
func (f *Frame) Col(col string) ([]null.Float, error) {
	j, ok := f.colPos[col]
	if !ok {
		return nil, fmt.Errorf("frame %q has no column %q", f.Name, col)
	}

	out := make([]null.Float, len(f.Index))
	for i := range f.Index {
		out[i] = f.Values[i][j]
	}

	return out, nil
}

// Empty reports whether the frame has no cells.
func (f *Frame) Empty() bool {
	return len(f.Index) == 0 || len(f.Columns) == 0
}

// Records renders the frame as a header line followed by one line per row,
// with the index label in the first column. Missing cells render as "".
func (f *Frame) Records() [][]string {
	out := make([][]string, 0, len(f.Index)+1)

	header := make([]string, 0, len(f.Columns)+1)
	header = append(header, f.Corner)
	header = append(header, f.Columns...)
	out = append(out, header)

	for i, label := range f.Index {
		line := make([]string, 0, len(f.Columns)+1)
		line = append(line, label)
		for _, v := range f.Values[i] {
			line = append(line, FormatFloat(v))
		}
		out = append(out, line)
	}

	return out
}

func (f *Frame) pos(row, col string) (int, int, error) {
	i, ok := f.rowPos[row]
	if !ok {
		return 0, 0, fmt.Errorf("frame %q has no row %q", f.Name, row)
	}
	j, ok := f.colPos[col]
	if !ok {
		return 0, 0, fmt.Errorf("frame %q has no column %q", f.Name, col)
	}

	return i, j, nil
}

// FormatFloat prints the shortest representation of a valid value and "" for
// a missing one.
func FormatFloat(v null.Float) string {
	if !v.Valid {
		return ""
	}

	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
