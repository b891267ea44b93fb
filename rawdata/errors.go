package rawdata

import (
	"fmt"
	"strings"
)

// ParseError reports a single source record that could not be mapped onto a
// Row. The record is skipped; the rest of the batch is unaffected.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	if loc != "" {
		loc += ": "
	}

	return fmt.Sprintf("%sfield %s (%q): %v", loc, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports that a table lacks columns an operation needs.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("raw data is missing required column(s): %s", strings.Join(e.Missing, ", "))
}
