// Package rawdata holds the flat table of replicate Cp readings imported from
// qPCR runs.
package rawdata

import (
	"math"
	"sort"

	"github.com/carbocation/runningvariance"
	"gopkg.in/guregu/null.v3"
)

// Table is an append-only, ordered collection of rows. It also remembers the
// column names of the source it was built from so that operations requiring
// particular columns can check for them.
type Table struct {
	columns []string
	rows    []Row
}

// New creates an empty table. With no columns given, DefaultColumns is used.
func New(columns ...string) *Table {
	if len(columns) == 0 {
		columns = DefaultColumns
	}

	return &Table{columns: append([]string(nil), columns...)}
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}

	return false
}

// AddColumns records extra source columns, ignoring ones already known.
func (t *Table) AddColumns(names ...string) {
	for _, name := range names {
		if !t.HasColumn(name) {
			t.columns = append(t.columns, name)
		}
	}
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Row(i int) Row { return t.rows[i] }

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Append adds rows at the end of the table. Existing rows are never touched.
func (t *Table) Append(rows ...Row) {
	t.rows = append(t.rows, rows...)
}

// AppendRecords parses and appends a batch of records. Records that fail to
// parse are skipped and reported; they never abort the batch. line0 is the
// line number of the first record in its source, used for error messages.
func (t *Table) AppendRecords(source string, line0 int, recs []Record) []*ParseError {
	var failures []*ParseError

	for i, rec := range recs {
		row, err := ParseRecord(rec)
		if err != nil {
			perr := err.(*ParseError)
			perr.Source = source
			perr.Line = line0 + i
			failures = append(failures, perr)
			continue
		}
		t.rows = append(t.rows, row)
	}

	return failures
}

// Sort orders the rows by gene then date, keeping the import order of rows
// that compare equal.
func (t *Table) Sort() error {
	if len(t.rows) == 0 {
		return nil
	}

	var missing []string
	for _, col := range []string{ColGene, ColDate} {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	sort.SliceStable(t.rows, func(i, j int) bool {
		if t.rows[i].Gene != t.rows[j].Gene {
			return t.rows[i].Gene < t.rows[j].Gene
		}
		return t.rows[i].Date.Before(t.rows[j].Date)
	})

	return nil
}

// Samples returns the distinct sample names in first-seen order.
func (t *Table) Samples() []string {
	return distinct(t.rows, func(r Row) string { return r.Sample })
}

// Genes returns the distinct gene names in first-seen order.
func (t *Table) Genes() []string {
	return distinct(t.rows, func(r Row) string { return r.Gene })
}

func distinct(rows []Row, key func(Row) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		k := key(r)
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	return out
}

// Replicates lists every Cp reading recorded for a gene/sample pair in table
// order, including missing ones.
func (t *Table) Replicates(gene, sample string) []null.Float {
	out := make([]null.Float, 0)
	for _, r := range t.rows {
		if r.Gene == gene && r.Sample == sample {
			out = append(out, r.CP)
		}
	}

	return out
}

// Records converts every row back to its string form, in table order.
func (t *Table) Records() []*Record {
	out := make([]*Record, 0, len(t.rows))
	for _, r := range t.rows {
		rec := r.Record()
		out = append(out, &rec)
	}

	return out
}

// GeneSummary describes the defined Cp readings of one gene across all
// samples. Min, Max and Mean are meaningless when N is 0.
type GeneSummary struct {
	Gene    string
	N       int
	Missing int
	Min     float64
	Max     float64
	Mean    float64
}

// cpStat adds the range to a running mean.
type cpStat struct {
	runningvariance.RunningStat
	Min float64
	Max float64
}

func newCPStat() *cpStat {
	return &cpStat{
		*runningvariance.NewRunningStat(),
		math.Inf(1),
		math.Inf(-1),
	}
}

func (s *cpStat) Push(x float64) {
	s.RunningStat.Push(x)
	s.Min = math.Min(s.Min, x)
	s.Max = math.Max(s.Max, x)
}

// Summary returns one GeneSummary per gene, in first-seen order.
func (t *Table) Summary() []GeneSummary {
	genes := t.Genes()
	pos := make(map[string]int, len(genes))
	acc := make([]*cpStat, len(genes))
	out := make([]GeneSummary, len(genes))
	for i, g := range genes {
		pos[g] = i
		acc[i] = newCPStat()
		out[i].Gene = g
	}

	for _, r := range t.rows {
		i := pos[r.Gene]
		if !r.CP.Valid {
			out[i].Missing++
			continue
		}
		acc[i].Push(r.CP.Float64)
		out[i].N++
	}

	for i := range out {
		if out[i].N == 0 {
			continue
		}
		out[i].Min = acc[i].Min
		out[i].Max = acc[i].Max
		out[i].Mean = acc[i].Mean()
	}

	return out
}
