package importer

import (
	"path/filepath"
	"strings"

	"github.com/carbocation/lightcycler/rawdata"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Header spellings seen in LightCycler exports and hand-made sheets, keyed
// by their lowercased form.
var headerAliases = map[string]string{
	"date":        rawdata.ColDate,
	"run date":    rawdata.ColDate,
	"gene":        rawdata.ColGene,
	"target":      rawdata.ColGene,
	"rt":          rawdata.ColRT,
	"pos":         rawdata.ColPos,
	"position":    rawdata.ColPos,
	"well":        rawdata.ColPos,
	"name":        rawdata.ColName,
	"sample":      rawdata.ColName,
	"sample name": rawdata.ColName,
	"cp":          rawdata.ColCP,
	"ct":          rawdata.ColCP,
	"cq":          rawdata.ColCP,
	"file":        rawdata.ColFile,
}

func canonicalHeader(h string) string {
	if canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
		return canonical
	}
	return strings.TrimSpace(h)
}

// rawBlock is the parsed content of one raw data sheet.
type rawBlock struct {
	columns []string
	records []rawdata.Record
	lines   []int
}

// parseRaw maps a raw data grid onto records. Per-run LightCycler exports
// lack the Date, Gene and RT columns; those are then taken from the file
// name and the instrument's well type word is removed from sample names.
func parseRaw(path string, sheet Sheet) (*rawBlock, error) {
	headerRow := -1
	for i, row := range sheet.Rows {
		if !blank(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return &rawBlock{}, nil
	}

	header := make([]string, len(sheet.Rows[headerRow]))
	present := make(map[string]bool)
	for i, h := range sheet.Rows[headerRow] {
		header[i] = canonicalHeader(h)
		present[header[i]] = true
	}

	grid := [][]string{header}
	lines := make([]int, 0, len(sheet.Rows)-headerRow-1)
	for i := headerRow + 1; i < len(sheet.Rows); i++ {
		if blank(sheet.Rows[i]) {
			continue
		}
		grid = append(grid, sheet.Rows[i])
		lines = append(lines, i+1)
	}

	var records []rawdata.Record
	if err := gocsv.UnmarshalCSV(&gridReader{rows: grid}, &records); err != nil {
		return nil, pfx.Err(err)
	}

	block := &rawBlock{records: records, lines: lines}

	if !present[rawdata.ColDate] || !present[rawdata.ColGene] {
		info, err := rawdata.ParseFilename(path)
		if err != nil {
			var missing []string
			for _, col := range []string{rawdata.ColDate, rawdata.ColGene} {
				if !present[col] {
					missing = append(missing, col)
				}
			}
			return nil, &rawdata.SchemaError{Missing: missing}
		}

		date := info.Date.Format("2006-01-02")
		for i := range block.records {
			rec := &block.records[i]
			if !present[rawdata.ColDate] {
				rec.Date = date
			}
			if !present[rawdata.ColGene] {
				rec.Gene = info.Gene
			}
			if !present[rawdata.ColRT] {
				rec.RT = info.RT
			}
			rec.Name = rawdata.CleanSampleName(rec.Name)
		}
		present[rawdata.ColDate] = true
		present[rawdata.ColGene] = true
		present[rawdata.ColRT] = true
	}

	base := filepath.Base(path)
	for i := range block.records {
		if strings.TrimSpace(block.records[i].File) == "" {
			block.records[i].File = base
		}
	}
	present[rawdata.ColFile] = true

	for _, col := range rawdata.DefaultColumns {
		if present[col] {
			block.columns = append(block.columns, col)
		}
	}

	return block, nil
}
