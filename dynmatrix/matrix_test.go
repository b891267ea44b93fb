package dynmatrix

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/carbocation/lightcycler/rawdata"
	"gopkg.in/guregu/null.v3"
)

func row(gene, sample string, cp ...float64) rawdata.Row {
	r := rawdata.Row{Gene: gene, Sample: sample}
	if len(cp) > 0 {
		r.CP = null.FloatFrom(cp[0])
	}
	return r
}

func TestScenarioA(t *testing.T) {
	tab := rawdata.New()
	tab.Append(
		row("GAPDH", "S1", 20.0),
		row("GAPDH", "S1", 22.0),
		row("GAPDH", "S2"),
	)
	m := Build(tab)

	c, err := m.Cell("GAPDH", "S1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Count != 2 || c.Mean.Float64 != 21.0 || c.Std.Float64 != 1.0 || !c.Mean.Valid || !c.Std.Valid {
		t.Errorf("unexpected S1 cell %+v", c)
	}

	c, err = m.Cell("GAPDH", "S2")
	if err != nil {
		t.Fatal(err)
	}
	if c.Count != 0 || c.Mean.Valid || c.Std.Valid {
		t.Errorf("a cell without defined Cp must have no mean/std, got %+v", c)
	}
}

func TestCountInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	genes := []string{"GAPDH", "ACTB", "TNF"}
	samples := []string{"S1", "S2", "S3", "S4"}

	tab := rawdata.New()
	expected := make(map[[2]string]int)
	for i := 0; i < 200; i++ {
		g, s := genes[rng.Intn(len(genes))], samples[rng.Intn(len(samples))]
		if rng.Intn(4) == 0 {
			tab.Append(row(g, s))
			continue
		}
		tab.Append(row(g, s, 15+10*rng.Float64()))
		expected[[2]string{g, s}]++
	}

	m := Build(tab)
	for _, g := range m.Genes() {
		for _, s := range m.Samples() {
			c, err := m.Cell(g, s)
			if err != nil {
				t.Fatal(err)
			}
			if c.Count != expected[[2]string{g, s}] {
				t.Errorf("%s/%s: count %d, expected %d", g, s, c.Count, expected[[2]string{g, s}])
			}
			if (c.Count == 0) == c.Mean.Valid {
				t.Errorf("%s/%s: mean validity does not follow count", g, s)
			}
		}
	}
}

func TestOrderIndependence(t *testing.T) {
	rows := []rawdata.Row{
		row("GAPDH", "S1", 20.1),
		row("GAPDH", "S1", 21.7),
		row("GAPDH", "S1", 19.3),
		row("GAPDH", "S2", 25.0),
		row("ACTB", "S1", 17.2),
		row("ACTB", "S1", 17.9),
	}

	forward := rawdata.New()
	forward.Append(rows...)
	backward := rawdata.New()
	for i := len(rows) - 1; i >= 0; i-- {
		backward.Append(rows[i])
	}

	a, b := Build(forward), Build(backward)
	for _, g := range a.Genes() {
		for _, s := range a.Samples() {
			ca, _ := a.Cell(g, s)
			cb, _ := b.Cell(g, s)
			if ca != cb {
				t.Errorf("%s/%s: %+v != %+v", g, s, ca, cb)
			}
		}
	}
}

func TestCellNotFound(t *testing.T) {
	tab := rawdata.New()
	tab.Append(row("GAPDH", "S1", 20))
	m := Build(tab)

	var nf *NotFoundError
	if _, err := m.Cell("ACTB", "S1"); !errors.As(err, &nf) || nf.Kind != "gene" {
		t.Errorf("expected an unknown gene error, got %v", err)
	}
	if _, err := m.Cell("GAPDH", "S9"); !errors.As(err, &nf) || nf.Kind != "sample" {
		t.Errorf("expected an unknown sample error, got %v", err)
	}
}

func TestViews(t *testing.T) {
	tab := rawdata.New()
	tab.Append(
		row("GAPDH", "S1", 20.0),
		row("GAPDH", "S1", 20.5),
		row("GAPDH", "S1", 21.0),
		row("GAPDH", "S2"),
	)
	m := Build(tab)

	means := m.View(Means)
	v, _ := means.At("GAPDH", "S1")
	if v.Float64 != 20.5 {
		t.Errorf("unexpected mean %v", v)
	}
	if v, _ := means.At("GAPDH", "S2"); v.Valid {
		t.Error("missing mean rendered as a value")
	}

	stds := m.View(Stds)
	v, _ = stds.At("GAPDH", "S1")
	if v.Float64 != 0.408 {
		t.Errorf("expected the std rounded to 0.408, got %v", v.Float64)
	}

	counts := m.View(Counts)
	if v, _ := counts.At("GAPDH", "S2"); !v.Valid || v.Float64 != 0 {
		t.Errorf("counts are never missing, got %+v", v)
	}

	c, _ := m.Cell("GAPDH", "S1")
	if c.Std.Float64 == 0.408 {
		t.Error("cells must keep full precision")
	}
}

func TestRound3Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		x := (rng.Float64() - 0.5) * 100
		once := Round3(x)
		if twice := Round3(once); twice != once {
			t.Fatalf("Round3(%v) = %v, Round3 of that = %v", x, once, twice)
		}
		if math.Abs(once-x) > 0.0005+1e-12 {
			t.Fatalf("Round3(%v) = %v is too far away", x, once)
		}
	}
}

func TestParseView(t *testing.T) {
	for in, expected := range map[string]View{"means": Means, "stds": Stds, "counts": Counts, "number of values": Counts} {
		v, err := ParseView(in)
		if err != nil || v != expected {
			t.Errorf("ParseView(%q) = %v, %v", in, v, err)
		}
	}
	if _, err := ParseView("medians"); err == nil {
		t.Error("expected an error for an unknown view")
	}
}
