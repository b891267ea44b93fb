package rawdata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/guregu/null.v3"
)

// Column names used by LightCycler exports and by our own raw data sheet.
const (
	ColDate = "Date"
	ColGene = "Gene"
	ColRT   = "RT"
	ColPos  = "Pos"
	ColName = "Name"
	ColCP   = "CP"
	ColFile = "File"
)

// DefaultColumns is the column layout of a raw data table built by this
// package.
var DefaultColumns = []string{ColDate, ColGene, ColRT, ColPos, ColName, ColCP, ColFile}

// Row is one replicate Cp reading. CP is invalid when the instrument reported
// no detection.
type Row struct {
	Date   time.Time
	Gene   string
	Sample string
	RT     string
	Pos    string
	File   string
	CP     null.Float
}

// Record is a row as it comes out of a tabulated source, before any typing.
// The csv tags double as the spreadsheet header names.
type Record struct {
	Date string `csv:"Date"`
	Gene string `csv:"Gene"`
	RT   string `csv:"RT"`
	Pos  string `csv:"Pos"`
	Name string `csv:"Name"`
	CP   string `csv:"CP"`
	File string `csv:"File"`
}

var (
	ErrEmptyField = errors.New("required value is empty")
	ErrBadCP      = errors.New("not a Cp value")
)

// Tokens that instruments and users write in place of a Cp when nothing was
// detected.
var missingCP = map[string]struct{}{
	"":             {},
	"-":            {},
	"na":           {},
	"n/a":          {},
	"nan":          {},
	"nd":           {},
	"undetermined": {},
}

// ParseRecord converts a source record into a Row. The returned error, if
// any, is a *ParseError naming the offending field.
func ParseRecord(rec Record) (Row, error) {
	row := Row{
		Gene:   strings.TrimSpace(rec.Gene),
		Sample: strings.TrimSpace(rec.Name),
		RT:     strings.TrimSpace(rec.RT),
		Pos:    strings.TrimSpace(rec.Pos),
		File:   strings.TrimSpace(rec.File),
	}

	if row.Gene == "" {
		return Row{}, &ParseError{Field: ColGene, Value: rec.Gene, Err: ErrEmptyField}
	}
	if row.Sample == "" {
		return Row{}, &ParseError{Field: ColName, Value: rec.Name, Err: ErrEmptyField}
	}

	dateString := strings.TrimSpace(rec.Date)
	if dateString == "" {
		return Row{}, &ParseError{Field: ColDate, Value: rec.Date, Err: ErrEmptyField}
	}
	date, err := dateparse.ParseAny(dateString)
	if err != nil {
		return Row{}, &ParseError{Field: ColDate, Value: rec.Date, Err: err}
	}
	row.Date = date

	cp, err := ParseCP(rec.CP)
	if err != nil {
		return Row{}, &ParseError{Field: ColCP, Value: rec.CP, Err: err}
	}
	row.CP = cp

	return row, nil
}

// ParseCP reads a Cp value. Comma decimals are accepted. Non-detection tokens
// produce an invalid null.Float, not zero.
func ParseCP(s string) (null.Float, error) {
	s = strings.TrimSpace(s)
	if _, missing := missingCP[strings.ToLower(s)]; missing {
		return null.Float{}, nil
	}

	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return null.Float{}, ErrBadCP
	}
	if math.IsNaN(v) {
		return null.Float{}, nil
	}
	if math.IsInf(v, 0) {
		return null.Float{}, ErrBadCP
	}

	return null.FloatFrom(v), nil
}

// Record converts the row back to its string form.
func (r Row) Record() Record {
	cp := ""
	if r.CP.Valid {
		cp = strconv.FormatFloat(r.CP.Float64, 'f', -1, 64)
	}

	return Record{
		Date: r.Date.Format("2006-01-02"),
		Gene: r.Gene,
		RT:   r.RT,
		Pos:  r.Pos,
		Name: r.Sample,
		CP:   cp,
		File: r.File,
	}
}

func (r Row) String() string {
	return fmt.Sprintf("%s %s %s %s", r.Date.Format("2006-01-02"), r.Gene, r.Sample, r.Record().CP)
}
