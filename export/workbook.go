package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/groups"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/rawdata"
	"github.com/carbocation/pfx"
	"github.com/xuri/excelize/v2"
)

// Workbook is everything that goes into an .xlsx export. Nil parts are left
// out. Frames in Extra are written after the fixed sheets, in order.
type Workbook struct {
	Table      *rawdata.Table
	Matrix     *dynmatrix.Matrix
	Groups     *groups.Assignment
	References []string
	Interest   []string

	GroupMeans  *frame.Frame
	GroupErrors *frame.Frame
	RQ          *frame.Frame
	RQByGroup   *frame.Frame

	// PValues maps gene to its pairwise p-value table. Each becomes a
	// "pvalues <gene>" sheet, genes in alphabetical order.
	PValues map[string]*frame.Frame

	Extra []*frame.Frame
}

// Excel refuses longer sheet names.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")")

// SheetName makes name acceptable to Excel.
func SheetName(name string) string {
	name = sheetNameReplacer.Replace(name)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// Namer hands out Excel-safe names that are unique ignoring case, as Excel
// and excelize compare sheet names. A clashing name gets a " (2)", " (3)"...
// suffix within the length limit. The same names serve as file names on
// case-insensitive file systems.
type Namer struct {
	seen map[string]bool
}

func NewNamer(taken ...string) *Namer {
	n := &Namer{seen: make(map[string]bool)}
	for _, name := range taken {
		n.seen[strings.ToLower(name)] = true
	}
	return n
}

// Name returns the unique name for name and reserves it.
func (n *Namer) Name(name string) string {
	base := SheetName(name)
	out := base
	for i := 2; n.seen[strings.ToLower(out)]; i++ {
		suffix := []rune(fmt.Sprintf(" (%d)", i))
		r := []rune(base)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		out = string(r) + string(suffix)
	}
	n.seen[strings.ToLower(out)] = true

	return out
}

// WriteWorkbook writes wb as an .xlsx file to w.
func WriteWorkbook(w io.Writer, wb Workbook) error {
	f, err := buildWorkbook(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// SaveWorkbook writes wb as an .xlsx file at path.
func SaveWorkbook(path string, wb Workbook) error {
	f, err := buildWorkbook(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func buildWorkbook(wb Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	x := &sheetWriter{f: f, names: NewNamer(defaultSheet)}

	if wb.Table != nil {
		x.raw(wb.Table)
	}
	if wb.Matrix != nil {
		for _, v := range []dynmatrix.View{dynmatrix.Means, dynmatrix.Stds, dynmatrix.Counts} {
			x.frame(wb.Matrix.View(v))
		}
	}
	if wb.Groups != nil {
		x.groups(wb.Groups)
	}
	if len(wb.References) > 0 || len(wb.Interest) > 0 {
		x.columns(importer.SheetGenes, []string{importer.GenesReference, importer.GenesInterest}, [][]string{wb.References, wb.Interest})
	}
	for _, fr := range []*frame.Frame{wb.GroupMeans, wb.GroupErrors, wb.RQ, wb.RQByGroup} {
		if fr != nil {
			x.frame(fr)
		}
	}

	genes := make([]string, 0, len(wb.PValues))
	for gene := range wb.PValues {
		genes = append(genes, gene)
	}
	sort.Strings(genes)
	for _, gene := range genes {
		x.frame(wb.PValues[gene])
	}

	for _, fr := range wb.Extra {
		x.frame(fr)
	}

	if x.err != nil {
		f.Close()
		return nil, x.err
	}

	if x.sheets > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		f.SetActiveSheet(0)
	}

	return f, nil
}

// NewFile always starts with this sheet.
const defaultSheet = "Sheet1"

// sheetWriter keeps the first error and ignores everything after it.
type sheetWriter struct {
	f      *excelize.File
	names  *Namer
	sheets int
	err    error
}

func (x *sheetWriter) newSheet(name string) string {
	if x.err != nil {
		return ""
	}

	name = x.names.Name(name)
	x.sheets++

	if _, err := x.f.NewSheet(name); err != nil {
		x.err = pfx.Err(err)
		return ""
	}

	return name
}

func (x *sheetWriter) set(sheet string, col, row int, v interface{}) {
	if x.err != nil {
		return
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		x.err = pfx.Err(err)
		return
	}
	if err := x.f.SetCellValue(sheet, cell, v); err != nil {
		x.err = pfx.Err(err)
	}
}

func (x *sheetWriter) raw(t *rawdata.Table) {
	sheet := x.newSheet(importer.SheetRawData)

	for j, h := range rawdata.DefaultColumns {
		x.set(sheet, j+1, 1, h)
	}
	for i, row := range t.Rows() {
		rec := row.Record()
		values := []interface{}{rec.Date, rec.Gene, rec.RT, rec.Pos, rec.Name, nil, rec.File}
		if row.CP.Valid {
			values[5] = row.CP.Float64
		}
		for j, v := range values {
			if v != nil {
				x.set(sheet, j+1, i+2, v)
			}
		}
	}
}

func (x *sheetWriter) frame(fr *frame.Frame) {
	sheet := x.newSheet(fr.Name)

	// A shortened or renamed sheet keeps its full name in the corner.
	corner := fr.Corner
	if sheet != fr.Name {
		corner = fr.Name
	}
	x.set(sheet, 1, 1, corner)
	for j, col := range fr.Columns {
		x.set(sheet, j+2, 1, col)
	}
	for i, label := range fr.Index {
		x.set(sheet, 1, i+2, label)
		for j, v := range fr.Values[i] {
			if v.Valid {
				x.set(sheet, j+2, i+2, v.Float64)
			}
		}
	}
}

func (x *sheetWriter) groups(a *groups.Assignment) {
	var headers []string
	var members [][]string
	for _, g := range a.Groups() {
		name := g.Name
		if !g.Active {
			name += importer.InactiveSuffix
		}
		headers = append(headers, name)
		members = append(members, g.Members())
	}

	x.columns(importer.SheetGroups, headers, members)
}

// columns writes one list per column under its header.
func (x *sheetWriter) columns(name string, headers []string, lists [][]string) {
	sheet := x.newSheet(name)

	for j, h := range headers {
		x.set(sheet, j+1, 1, h)
		for i, v := range lists[j] {
			x.set(sheet, j+1, i+2, v)
		}
	}
}
