// Package export writes raw data, matrices and statistics out as TSV, CSV,
// .xlsx workbooks and PNG charts.
package export

import (
	"encoding/csv"
	"io"

	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/rawdata"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// WriteFrame prints f as tab delimited text, header first. Missing cells are
// empty.
func WriteFrame(w io.Writer, f *frame.Frame) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'

	if err := tsv.WriteAll(f.Records()); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteRawCSV prints the raw data table as comma delimited text with the
// column names the importer recognises.
func WriteRawCSV(w io.Writer, t *rawdata.Table) error {
	if err := gocsv.Marshal(t.Records(), w); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteRawTSV is WriteRawCSV with tabs.
func WriteRawTSV(w io.Writer, t *rawdata.Table) error {
	tsv := gocsv.DefaultCSVWriter(w)
	tsv.Comma = '\t'

	if err := gocsv.MarshalCSV(t.Records(), tsv); err != nil {
		return pfx.Err(err)
	}

	return nil
}
