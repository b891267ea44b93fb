package rawdata

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"gopkg.in/guregu/null.v3"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseCP(t *testing.T) {
	for _, v := range []struct {
		In      string
		Valid   bool
		Value   float64
		WantErr bool
	}{
		{"20.5", true, 20.5, false},
		{"20,5", true, 20.5, false},
		{" 31.02 ", true, 31.02, false},
		{"0", true, 0, false},
		{"", false, 0, false},
		{"-", false, 0, false},
		{"NaN", false, 0, false},
		{"Undetermined", false, 0, false},
		{"abc", false, 0, true},
		{"Inf", false, 0, true},
	} {
		got, err := ParseCP(v.In)
		if (err != nil) != v.WantErr {
			t.Fatalf("ParseCP(%q): unexpected error state %v", v.In, err)
		}
		if got.Valid != v.Valid || (v.Valid && got.Float64 != v.Value) {
			t.Errorf("ParseCP(%q) = %+v, expected valid=%v value=%v", v.In, got, v.Valid, v.Value)
		}
	}
}

func TestParseRecordErrors(t *testing.T) {
	for _, v := range []struct {
		Rec   Record
		Field string
	}{
		{Record{Date: "2019-03-12", Name: "S1", CP: "20"}, ColGene},
		{Record{Date: "2019-03-12", Gene: "GAPDH", CP: "20"}, ColName},
		{Record{Gene: "GAPDH", Name: "S1", CP: "20"}, ColDate},
		{Record{Date: "not a date", Gene: "GAPDH", Name: "S1", CP: "20"}, ColDate},
		{Record{Date: "2019-03-12", Gene: "GAPDH", Name: "S1", CP: "twenty"}, ColCP},
	} {
		_, err := ParseRecord(v.Rec)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%+v: expected a *ParseError, got %v", v.Rec, err)
		}
		if perr.Field != v.Field {
			t.Errorf("%+v: expected field %s, got %s", v.Rec, v.Field, perr.Field)
		}
	}
}

func TestAppendRecordsSkipsBadRecords(t *testing.T) {
	tab := New()
	failures := tab.AppendRecords("run.csv", 2, []Record{
		{Date: "2019-03-12", Gene: "GAPDH", Name: "S1", CP: "20,0"},
		{Date: "2019-03-12", Gene: "GAPDH", Name: "S1", CP: "bogus"},
		{Date: "2019-03-12", Gene: "GAPDH", Name: "S2", CP: ""},
	})

	if tab.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tab.Len())
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Line != 3 || failures[0].Source != "run.csv" {
		t.Errorf("unexpected failure location %s:%d", failures[0].Source, failures[0].Line)
	}
	if tab.Row(1).CP.Valid {
		t.Error("a missing Cp must stay missing")
	}
}

func TestAppendDoesNotMutate(t *testing.T) {
	tab := New()
	tab.Append(Row{Gene: "A", Sample: "S1", CP: null.FloatFrom(1)})
	before := tab.Rows()

	tab.Append(Row{Gene: "B", Sample: "S2", CP: null.FloatFrom(2)})

	if !reflect.DeepEqual(before[0], tab.Row(0)) {
		t.Error("existing row changed after Append")
	}
	before[0].Gene = "changed"
	if tab.Row(0).Gene != "A" {
		t.Error("Rows must return a copy")
	}
}

func TestSort(t *testing.T) {
	tab := New()
	tab.Append(
		Row{Date: day("2019-03-14"), Gene: "TNF", Sample: "S1"},
		Row{Date: day("2019-03-12"), Gene: "GAPDH", Sample: "first"},
		Row{Date: day("2019-03-13"), Gene: "GAPDH", Sample: "S3"},
		Row{Date: day("2019-03-12"), Gene: "GAPDH", Sample: "second"},
	)

	if err := tab.Sort(); err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, tab.Len())
	for _, r := range tab.Rows() {
		got = append(got, r.Gene+"/"+r.Sample)
	}
	expected := []string{"GAPDH/first", "GAPDH/second", "GAPDH/S3", "TNF/S1"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestSortSchemaError(t *testing.T) {
	tab := New(ColName, ColCP)
	tab.Append(Row{Gene: "GAPDH", Sample: "S1"})

	err := tab.Sort()
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a *SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(serr.Missing, []string{ColGene, ColDate}) {
		t.Errorf("unexpected missing columns %v", serr.Missing)
	}

	if err := New(ColName).Sort(); err != nil {
		t.Errorf("sorting an empty table should be a no-op, got %v", err)
	}
}

func TestSamplesFirstSeenOrder(t *testing.T) {
	tab := New()
	for _, s := range []string{"S2", "S1", "S2", "S3", "S1"} {
		tab.Append(Row{Gene: "GAPDH", Sample: s})
	}

	if got := tab.Samples(); !reflect.DeepEqual(got, []string{"S2", "S1", "S3"}) {
		t.Errorf("unexpected samples %v", got)
	}
}

func TestReplicatesAndSummary(t *testing.T) {
	tab := New()
	tab.Append(
		Row{Gene: "GAPDH", Sample: "S1", CP: null.FloatFrom(20)},
		Row{Gene: "GAPDH", Sample: "S1", CP: null.FloatFrom(22)},
		Row{Gene: "GAPDH", Sample: "S2", CP: null.Float{}},
		Row{Gene: "ACTB", Sample: "S1", CP: null.FloatFrom(18)},
	)

	reps := tab.Replicates("GAPDH", "S1")
	if len(reps) != 2 || reps[0].Float64 != 20 || reps[1].Float64 != 22 {
		t.Errorf("unexpected replicates %v", reps)
	}

	sum := tab.Summary()
	if len(sum) != 2 || sum[0].Gene != "GAPDH" {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum[0].N != 2 || sum[0].Missing != 1 {
		t.Errorf("unexpected counts %+v", sum[0])
	}
	if math.Abs(sum[0].Mean-21) > 1e-9 || sum[0].Min != 20 || sum[0].Max != 22 {
		t.Errorf("unexpected statistics %+v", sum[0])
	}
	if sum[1].N != 1 || sum[1].Min != 18 || sum[1].Max != 18 || sum[1].Mean != 18 {
		t.Errorf("unexpected single value statistics %+v", sum[1])
	}
}

func TestParseFilename(t *testing.T) {
	info, err := ParseFilename("/data/2019-03-12 plate 2 RT1-2_GAPDH.PDF")
	if err != nil {
		t.Fatal(err)
	}
	if info.Gene != "GAPDH" || info.RT != "RT1-2" || !info.Date.Equal(day("2019-03-12")) {
		t.Errorf("unexpected file info %+v", info)
	}

	if _, err := ParseFilename("results.xlsx"); err == nil {
		t.Error("expected an error for a non LightCycler name")
	}
}

func TestCleanSampleName(t *testing.T) {
	for in, expected := range map[string]string{
		"Standard  WT 1": "WT 1",
		"Control KO-3":   "KO-3",
		"WT 1":           "WT 1",
		"Sample":         "Sample",
	} {
		if got := CleanSampleName(in); got != expected {
			t.Errorf("CleanSampleName(%q) = %q, expected %q", in, got, expected)
		}
	}
}
