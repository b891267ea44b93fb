package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/lightcycler"
	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Sheet is one grid of cells as it comes out of a source file. Delimited
// text files produce a single sheet with an empty name.
type Sheet struct {
	Name string
	Rows [][]string
}

func readText(content []byte) ([]Sheet, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = lightcycler.DetermineDelimiter(content)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	return []Sheet{{Rows: rows}}, nil
}

func readXLSX(content []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("sheet %q: %v", name, err))
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}

	return sheets, nil
}

func readXLS(content []byte) ([]Sheet, error) {
	spreadsheet, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, pfx.Err(err)
	}

	var sheets []Sheet
	for sheetID := 0; sheetID < spreadsheet.NumSheets(); sheetID++ {
		sheet := spreadsheet.GetSheet(sheetID)
		if sheet == nil {
			continue
		}

		out := Sheet{Name: sheet.Name}
		for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
			row := xlsRow(sheet, rowID)
			if row == nil {
				out.Rows = append(out.Rows, nil)
				continue
			}

			cells := make([]string, 0, row.LastCol()+1)
			for colID := 0; colID <= row.LastCol(); colID++ {
				cells = append(cells, row.Col(colID))
			}
			out.Rows = append(out.Rows, trimTrailingEmpty(cells))
		}
		sheets = append(sheets, out)
	}

	return sheets, nil
}

// xlsRow returns nil for rows the sheet does not store. The xls package
// dereferences missing rows instead of reporting them.
func xlsRow(sheet *xls.WorkSheet, rowID int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()

	return sheet.Row(rowID)
}

func trimTrailingEmpty(cells []string) []string {
	for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func blank(cells []string) bool {
	return len(trimTrailingEmpty(cells)) == 0
}

// gridReader serves an in-memory grid to gocsv, which otherwise only reads
// from delimited text.
type gridReader struct {
	rows [][]string
	pos  int
}

func (g *gridReader) Read() ([]string, error) {
	if g.pos >= len(g.rows) {
		return nil, io.EOF
	}
	g.pos++
	return g.rows[g.pos-1], nil
}

func (g *gridReader) ReadAll() ([][]string, error) {
	rest := g.rows[g.pos:]
	g.pos = len(g.rows)
	return rest, nil
}
