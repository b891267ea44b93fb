// Package session keeps raw data, the aggregation matrix, sample groups and
// gene lists consistent with each other. Every raw data change rebuilds the
// matrix, and every change to the matrix, the groups or the gene lists drops
// the cached statistics and RQ tables, which are recomputed on next use.
package session

import (
	"log"

	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/export"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/groups"
	"github.com/carbocation/lightcycler/groupstats"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/rawdata"
	"github.com/carbocation/lightcycler/rq"
)

// Session is not safe for concurrent use.
type Session struct {
	logger *log.Logger

	table      *rawdata.Table
	matrix     *dynmatrix.Matrix
	assignment *groups.Assignment
	references []string
	interest   []string

	// Derived, nil until requested.
	means     *frame.Frame
	errors    *frame.Frame
	pairwise  *groupstats.Result
	rqSamples *frame.Frame
	rqGroups  *frame.Frame
}

// New returns an empty session. A nil logger uses the standard logger.
func New(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		logger:     logger,
		table:      rawdata.New(),
		assignment: groups.New(),
	}
	s.matrix = dynmatrix.Build(s.table)

	return s
}

// Table returns the raw data. Modify it only through the session.
func (s *Session) Table() *rawdata.Table { return s.table }

// Matrix returns the current aggregation matrix.
func (s *Session) Matrix() *dynmatrix.Matrix { return s.matrix }

// Groups returns the group assignment. Modify it only through the session.
func (s *Session) Groups() *groups.Assignment { return s.assignment }

func (s *Session) References() []string { return append([]string(nil), s.references...) }
func (s *Session) Interest() []string   { return append([]string(nil), s.interest...) }

func (s *Session) invalidate() {
	s.means, s.errors = nil, nil
	s.pairwise = nil
	s.rqSamples, s.rqGroups = nil, nil
}

func (s *Session) rebuild() error {
	if err := s.table.Sort(); err != nil {
		return err
	}
	s.matrix = dynmatrix.Build(s.table)
	s.invalidate()

	return nil
}

// editTable applies edit to a copy of the table and keeps the copy only if
// it sorts, so a rejected edit leaves the table and matrix as they were.
func (s *Session) editTable(edit func(t *rawdata.Table)) error {
	t := rawdata.New(s.table.Columns()...)
	t.Append(s.table.Rows()...)
	edit(t)
	if err := t.Sort(); err != nil {
		return err
	}

	s.table = t
	s.matrix = dynmatrix.Build(s.table)
	s.invalidate()

	return nil
}

// Append adds raw rows and rebuilds the matrix.
func (s *Session) Append(rows ...rawdata.Row) error {
	return s.editTable(func(t *rawdata.Table) { t.Append(rows...) })
}

// AppendRecords parses and adds source records, skipping the ones that
// fail, and rebuilds the matrix.
func (s *Session) AppendRecords(source string, line0 int, recs []rawdata.Record) ([]*rawdata.ParseError, error) {
	var failures []*rawdata.ParseError
	err := s.editTable(func(t *rawdata.Table) {
		failures = t.AppendRecords(source, line0, recs)
	})
	return failures, err
}

// ResetData drops all raw data. Groups and gene lists are kept.
func (s *Session) ResetData() error {
	s.table = rawdata.New()
	return s.rebuild()
}

// Load merges an import into the session: rows are appended, groups and
// gene lists found in the import are added to the existing ones.
func (s *Session) Load(res *importer.Result) error {
	err := s.editTable(func(t *rawdata.Table) {
		t.AddColumns(res.Table.Columns()...)
		t.Append(res.Table.Rows()...)
	})
	if err != nil {
		return err
	}

	if res.Groups != nil {
		for _, g := range res.Groups.Groups() {
			s.assignment.AddGroup(g.Name)
			for _, sample := range g.Members() {
				if err := s.assignment.AddSampleToGroup(g.Name, sample); err != nil {
					return err
				}
			}
			if err := s.assignment.SetActive(g.Name, g.Active); err != nil {
				return err
			}
		}
	}

	if len(res.References) > 0 {
		s.AddReferences(res.References...)
	}
	if len(res.Interest) > 0 {
		s.AddInterest(res.Interest...)
	}
	s.invalidate()

	return nil
}

// Group edits. Each one drops the derived results.

func (s *Session) AddGroup(name string) {
	s.assignment.AddGroup(name)
	s.invalidate()
}

func (s *Session) RemoveGroups(names ...string) {
	s.assignment.RemoveGroups(names...)
	s.invalidate()
}

func (s *Session) ResetGroups() {
	s.assignment.Reset()
	s.invalidate()
}

func (s *Session) SetActive(name string, active bool) error {
	if err := s.assignment.SetActive(name, active); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Session) AddSampleToGroup(name, sample string) error {
	if err := s.assignment.AddSampleToGroup(name, sample); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Session) RemoveSampleFromGroup(name, sample string) error {
	if err := s.assignment.RemoveSampleFromGroup(name, sample); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// AddReferences marks genes as reference genes. A gene is never in both
// lists, so the genes are removed from the interest list.
func (s *Session) AddReferences(genes ...string) {
	s.references = union(s.references, genes)
	s.interest = without(s.interest, genes)
	s.invalidate()
}

// AddInterest marks genes as genes of interest, removing them from the
// reference list.
func (s *Session) AddInterest(genes ...string) {
	s.interest = union(s.interest, genes)
	s.references = without(s.references, genes)
	s.invalidate()
}

// RemoveGenes takes genes out of both lists.
func (s *Session) RemoveGenes(genes ...string) {
	s.references = without(s.references, genes)
	s.interest = without(s.interest, genes)
	s.invalidate()
}

// AvailableGenes are the matrix genes that are in neither list.
func (s *Session) AvailableGenes() []string {
	return without(s.matrix.Genes(), append(s.References(), s.interest...))
}

// MeansAndErrors returns the per-group means and errors of every gene.
func (s *Session) MeansAndErrors() (means, errors *frame.Frame) {
	if s.means == nil {
		s.means, s.errors = groupstats.MeansAndErrors(s.matrix, s.assignment)
	}
	return s.means, s.errors
}

// PairwiseTest returns the Holm adjusted pairwise t-tests of every gene.
func (s *Session) PairwiseTest() groupstats.Result {
	if s.pairwise == nil {
		res := groupstats.PairwiseTest(s.matrix, s.assignment, s.logger)
		s.pairwise = &res
	}
	return *s.pairwise
}

// RQ returns the relative quantification of the interest genes per sample.
func (s *Session) RQ() (*frame.Frame, error) {
	if s.rqSamples == nil {
		f, err := rq.Matrix(s.matrix, s.interest, s.references, nil)
		if err != nil {
			return nil, err
		}
		s.rqSamples = f
	}
	return s.rqSamples, nil
}

// RQByGroup returns the relative quantification of the interest genes per
// active group.
func (s *Session) RQByGroup() (*frame.Frame, error) {
	if s.rqGroups == nil {
		f, err := rq.ByGroup(s.matrix, s.interest, s.references, s.assignment)
		if err != nil {
			return nil, err
		}
		s.rqGroups = f
	}
	return s.rqGroups, nil
}

// Workbook gathers everything computable into an export. Results that
// cannot be computed, like RQ without gene lists, are left out and logged.
func (s *Session) Workbook() export.Workbook {
	wb := export.Workbook{
		Table:      s.table,
		Matrix:     s.matrix,
		Groups:     s.assignment,
		References: s.References(),
		Interest:   s.Interest(),
	}

	if len(s.assignment.Active()) > 0 {
		wb.GroupMeans, wb.GroupErrors = s.MeansAndErrors()
		wb.PValues = s.PairwiseTest().PValues
	}

	if len(s.references) > 0 || len(s.interest) > 0 {
		var err error
		if wb.RQ, err = s.RQ(); err != nil {
			s.logger.Println("RQ matrix not exported:", err)
		}
		if len(s.assignment.Active()) > 0 {
			if wb.RQByGroup, err = s.RQByGroup(); err != nil {
				s.logger.Println("RQ by group not exported:", err)
			}
		}
	}

	return wb
}

func union(dst, values []string) []string {
	out := append([]string(nil), dst...)
	for _, v := range values {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func without(src, drop []string) []string {
	out := make([]string, 0, len(src))
	for _, v := range src {
		if !contains(drop, v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
