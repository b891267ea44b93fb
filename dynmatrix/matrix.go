// Package dynmatrix aggregates replicate Cp readings into the "dynamic
// matrix": for every gene and sample, how many replicates were detected and
// their mean and standard deviation.
package dynmatrix

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/rawdata"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"
)

// Cell summarizes the replicates of one gene/sample pair. Mean and Std are
// invalid when Count is 0. Values are kept at full precision.
type Cell struct {
	Count int
	Mean  null.Float
	Std   null.Float
}

// NotFoundError is returned when looking up a gene or sample the matrix does
// not know.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// Matrix is the gene x sample aggregation of a raw table. Genes and samples
// keep the first-seen order of the table they were built from.
type Matrix struct {
	genes   []string
	samples []string
	genePos map[string]int
	smplPos map[string]int
	cells   [][]Cell
}

// Build aggregates a raw table. Only defined Cp values contribute; the
// standard deviation is the population (ddof 0) one. The cell values depend
// only on the multiset of rows, not on their order.
func Build(t *rawdata.Table) *Matrix {
	m := &Matrix{
		genes:   t.Genes(),
		samples: t.Samples(),
	}
	m.genePos = index(m.genes)
	m.smplPos = index(m.samples)

	values := make([][][]float64, len(m.genes))
	for i := range values {
		values[i] = make([][]float64, len(m.samples))
	}

	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if !r.CP.Valid {
			continue
		}
		g, s := m.genePos[r.Gene], m.smplPos[r.Sample]
		values[g][s] = append(values[g][s], r.CP.Float64)
	}

	m.cells = make([][]Cell, len(m.genes))
	for g := range m.genes {
		m.cells[g] = make([]Cell, len(m.samples))
		for s := range m.samples {
			m.cells[g][s] = aggregate(values[g][s])
		}
	}

	return m
}

func aggregate(cps []float64) Cell {
	if len(cps) == 0 {
		return Cell{}
	}

	// Sorting first makes the floating point sums independent of row order.
	sort.Float64s(cps)
	mean, std := stat.PopMeanStdDev(cps, nil)

	return Cell{
		Count: len(cps),
		Mean:  null.FloatFrom(mean),
		Std:   null.FloatFrom(std),
	}
}

func index(names []string) map[string]int {
	out := make(map[string]int, len(names))
	for i, n := range names {
		out[n] = i
	}
	return out
}

func (m *Matrix) Genes() []string   { return append([]string(nil), m.genes...) }
func (m *Matrix) Samples() []string { return append([]string(nil), m.samples...) }

func (m *Matrix) HasGene(gene string) bool {
	_, ok := m.genePos[gene]
	return ok
}

// Cell returns the aggregate of one gene/sample pair.
func (m *Matrix) Cell(gene, sample string) (Cell, error) {
	g, ok := m.genePos[gene]
	if !ok {
		return Cell{}, &NotFoundError{Kind: "gene", Name: gene}
	}
	s, ok := m.smplPos[sample]
	if !ok {
		return Cell{}, &NotFoundError{Kind: "sample", Name: sample}
	}

	return m.cells[g][s], nil
}

// Mean is a shortcut for the mean of a cell.
func (m *Matrix) Mean(gene, sample string) (null.Float, error) {
	c, err := m.Cell(gene, sample)
	return c.Mean, err
}

// View selects which cell value a frame shows.
type View int

const (
	Means View = iota
	Stds
	Counts
)

var viewNames = [...]string{"means", "stds", "number of values"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView maps "means", "stds", or "counts" (also "number of values") to a
// View.
func ParseView(s string) (View, error) {
	switch s {
	case "means", "mean":
		return Means, nil
	case "stds", "std":
		return Stds, nil
	case "counts", "count", "number of values":
		return Counts, nil
	}

	return 0, fmt.Errorf("unknown matrix view %q, expected means, stds or counts", s)
}

// View renders one aspect of the matrix as a gene x sample frame. Means and
// stds are rounded to 3 decimals; missing cells stay missing. Counts are
// always present.
func (m *Matrix) View(v View) *frame.Frame {
	f := frame.New(v.String(), m.genes, m.samples)
	f.Corner = "Gene"

	for g := range m.genes {
		for s := range m.samples {
			c := m.cells[g][s]
			switch v {
			case Means:
				f.Values[g][s] = RoundNull(c.Mean)
			case Stds:
				f.Values[g][s] = RoundNull(c.Std)
			case Counts:
				f.Values[g][s] = null.FloatFrom(float64(c.Count))
			}
		}
	}

	return f
}

// Round3 rounds half away from zero to 3 decimal digits.
func Round3(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Round(x*1000) / 1000
}

// RoundNull rounds a valid value to 3 decimals and passes missing values
// through.
func RoundNull(v null.Float) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(Round3(v.Float64))
}
