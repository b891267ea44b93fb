package export

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/groups"
	"github.com/carbocation/lightcycler/groupstats"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/rawdata"
	"github.com/xuri/excelize/v2"
	"gopkg.in/guregu/null.v3"
)

var runDate = time.Date(2019, 3, 12, 0, 0, 0, 0, time.UTC)

func row(gene, sample string, cp ...float64) rawdata.Row {
	r := rawdata.Row{Date: runDate, Gene: gene, Sample: sample, File: "run.tsv"}
	if len(cp) > 0 {
		r.CP = null.FloatFrom(cp[0])
	}
	return r
}

func sampleTable() *rawdata.Table {
	tab := rawdata.New()
	tab.Append(
		row("GAPDH", "S1", 20),
		row("GAPDH", "S1", 22),
		row("GAPDH", "S2", 24),
		row("GAPDH", "S3"),
		row("IL6", "S1", 30),
		row("IL6", "S2", 31),
	)
	return tab
}

func TestWriteFrame(t *testing.T) {
	f := frame.New("means", []string{"GAPDH"}, []string{"S1", "S2"})
	f.Corner = "Gene"
	f.Set("GAPDH", "S1", null.FloatFrom(21.5))

	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != nil {
		t.Fatal(err)
	}

	want := "Gene\tS1\tS2\nGAPDH\t21.5\t\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRawCSV(&buf, sampleTable()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header and 6 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Gene,RT,Pos,Name,CP,File" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[4] != "2019-03-12,GAPDH,,,S3,,run.tsv" {
		t.Fatalf("missing Cp must be written empty, got %q", lines[4])
	}

	buf.Reset()
	if err := WriteRawTSV(&buf, sampleTable()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Date\tGene\tRT") {
		t.Fatalf("unexpected TSV output %q", buf.String())
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName("pvalues a/b"); got != "pvalues a_b" {
		t.Errorf("got %q", got)
	}
	if got := SheetName("pvalues " + strings.Repeat("x", 40)); len(got) != 31 {
		t.Errorf("expected a 31 character name, got %d", len(got))
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	tab := sampleTable()
	m := dynmatrix.Build(tab)

	a := groups.New()
	a.AddGroup("ctrl")
	a.AddSampleToGroup("ctrl", "S1")
	a.AddGroup("treated")
	a.AddSampleToGroup("treated", "S2")
	a.AddSampleToGroup("treated", "S3")
	a.AddGroup("spare")
	a.SetActive("spare", false)

	means, errs := groupstats.MeansAndErrors(m, a)
	pvalues := map[string]*frame.Frame{
		"GAPDH": frame.New("pvalues GAPDH", []string{"ctrl", "treated"}, []string{"ctrl", "treated"}),
	}

	path := filepath.Join(t.TempDir(), "session.xlsx")
	err := SaveWorkbook(path, Workbook{
		Table:       tab,
		Matrix:      m,
		Groups:      a,
		References:  []string{"GAPDH"},
		Interest:    []string{"IL6"},
		GroupMeans:  means,
		GroupErrors: errs,
		PValues:     pvalues,
	})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := f.GetSheetList()
	f.Close()

	want := []string{"raw data", "means", "stds", "number of values", "groups", "genes", "group means", "group errors", "pvalues GAPDH"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got sheets %v, want %v", got, want)
	}

	res, err := importer.Run(context.Background(), []string{path}, importer.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Loaded != 1 || res.Table.Len() != tab.Len() {
		t.Fatalf("re-import loaded %d files and %d rows", res.Loaded, res.Table.Len())
	}
	for i := 0; i < tab.Len(); i++ {
		if res.Table.Row(i).String() != tab.Row(i).String() {
			t.Fatalf("row %d: got %s, want %s", i, res.Table.Row(i), tab.Row(i))
		}
	}
	if g := res.Groups.Group("spare"); g == nil || g.Active {
		t.Fatalf("inactive group did not survive the round trip: %+v", g)
	}
	if g := res.Groups.Group("treated"); g == nil || len(g.Members()) != 2 {
		t.Fatalf("unexpected treated group %+v", g)
	}
	if len(res.References) != 1 || len(res.Interest) != 1 || res.Interest[0] != "IL6" {
		t.Fatalf("unexpected gene lists %v %v", res.References, res.Interest)
	}
}

func TestMeansAndErrorsPNG(t *testing.T) {
	m := dynmatrix.Build(sampleTable())
	a := groups.New()
	a.AddGroup("ctrl")
	a.AddSampleToGroup("ctrl", "S1")
	a.AddGroup("treated")
	a.AddSampleToGroup("treated", "S2")
	means, errs := groupstats.MeansAndErrors(m, a)

	var buf bytes.Buffer
	if err := MeansAndErrorsPNG(&buf, "GAPDH", means, errs); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}

	empty := frame.New("group means", []string{"GAPDH"}, []string{"ctrl"})
	if err := MeansAndErrorsPNG(ioutil.Discard, "GAPDH", empty, empty); err != ErrNoData {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if err := MeansAndErrorsPNG(ioutil.Discard, "ACTB", means, errs); err == nil {
		t.Fatal("expected an error for an unknown gene")
	}
}

func TestNamer(t *testing.T) {
	n := NewNamer("Sheet1")
	long := "pvalues " + strings.Repeat("x", 40)

	tests := []struct {
		in   string
		want string
	}{
		{"pvalues ACTB", "pvalues ACTB"},
		{"pvalues Actb", "pvalues Actb (2)"},
		{"pvalues actb", "pvalues actb (3)"},
		{"sheet1", "sheet1 (2)"},
		{long, "pvalues " + strings.Repeat("x", 23)},
		{long, "pvalues " + strings.Repeat("x", 19) + " (2)"},
	}

	for _, tt := range tests {
		got := n.Name(tt.in)
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.in, got, tt.want)
		}
		if len([]rune(got)) > 31 {
			t.Errorf("%s: %q is longer than 31 characters", tt.in, got)
		}
	}
}

func TestWorkbookGeneNameClashes(t *testing.T) {
	genes := []string{
		"ACTB",
		"Actb",
		"ENSG00000111640_GAPDH_variant1",
		"ENSG00000111640_GAPDH_variant2",
	}

	pvalues := make(map[string]*frame.Frame)
	for _, gene := range genes {
		f := frame.New("pvalues "+gene, []string{"a", "b"}, []string{"a", "b"})
		f.Corner = "Group"
		f.Set("a", "b", null.FloatFrom(0.5))
		pvalues[gene] = f
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, Workbook{PValues: pvalues}); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != len(genes) {
		t.Fatalf("expected %d sheets, got %v", len(genes), sheets)
	}

	full := make(map[string]bool)
	seen := make(map[string]bool)
	for _, sheet := range sheets {
		if seen[strings.ToLower(sheet)] {
			t.Fatalf("sheet %q clashes with another sheet", sheet)
		}
		seen[strings.ToLower(sheet)] = true

		corner, err := f.GetCellValue(sheet, "A1")
		if err != nil {
			t.Fatal(err)
		}
		if sheet != SheetName(sheet) || len([]rune(sheet)) > 31 {
			t.Fatalf("sheet name %q is not Excel-safe", sheet)
		}
		if corner == "Group" {
			full[sheet] = true
		} else {
			full[corner] = true
		}

		v, err := f.GetCellValue(sheet, "C2")
		if err != nil || v != "0.5" {
			t.Fatalf("sheet %q lost its p-value: %q, %v", sheet, v, err)
		}
	}

	for _, gene := range genes {
		if !full["pvalues "+gene] {
			t.Errorf("gene %s cannot be found in the workbook (%v)", gene, full)
		}
	}
}
