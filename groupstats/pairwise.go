package groupstats

import (
	"log"
	"strings"

	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/groups"
	"gopkg.in/guregu/null.v3"
)

// Skip records a gene left out of the pairwise comparison. Failure is false
// when the gene simply had no data in any active group, and true when there
// was data but no test could be computed from it.
type Skip struct {
	Gene    string
	Reason  string
	Failure bool
}

// Result holds the pairwise comparison of every tested gene.
type Result struct {
	// Groups are the active group names, in assignment order, that label the
	// rows and columns of every p-value table.
	Groups []string

	// Genes lists the tested genes in matrix order.
	Genes []string

	// PValues maps a tested gene to its square table of Holm adjusted
	// p-values. The diagonal is 1. A pair that could not be tested is
	// missing.
	PValues map[string]*frame.Frame

	Skipped []Skip
}

// PairwiseTest runs, for every gene, a Student t-test between every pair of
// active groups on the members' per-sample means, and Holm corrects the
// p-values of each gene together. Genes that cannot be tested are skipped and
// logged; they never abort the run. A nil logger uses the standard logger.
func PairwiseTest(m *dynmatrix.Matrix, a *groups.Assignment, logger *log.Logger) Result {
	if logger == nil {
		logger = log.Default()
	}

	active := a.Active()
	res := Result{
		Groups:  groups.Names(active),
		PValues: make(map[string]*frame.Frame),
	}

	for _, gene := range m.Genes() {
		values := make([][]float64, len(active))
		withData := 0
		for k, g := range active {
			var missing []string
			values[k], missing = GroupValues(m, gene, g)
			if len(missing) > 0 {
				logger.Printf("Warning: gene %s, group %s: no value for sample(s) %s\n", gene, g.Name, strings.Join(missing, ", "))
			}
			if len(values[k]) > 0 {
				withData++
			}
		}

		if withData == 0 {
			logger.Printf("Warning: gene %s: no selected group has any value, skipping\n", gene)
			res.Skipped = append(res.Skipped, Skip{Gene: gene, Reason: "no active group has data"})
			continue
		}
		if withData < 2 {
			logger.Printf("Error: gene %s: only one group has values, the test cannot be run\n", gene)
			res.Skipped = append(res.Skipped, Skip{Gene: gene, Reason: "fewer than two groups have data", Failure: true})
			continue
		}

		table, ok := compareGroups(res.Groups, values)
		if !ok {
			logger.Printf("Error: gene %s: no pair of groups could be tested\n", gene)
			res.Skipped = append(res.Skipped, Skip{Gene: gene, Reason: "no testable pair of groups", Failure: true})
			continue
		}

		table.Name = "pvalues " + gene
		res.PValues[gene] = table
		res.Genes = append(res.Genes, gene)
	}

	return res
}

type pair struct{ i, j int }

// compareGroups fills the symmetric p-value table of one gene. It reports
// false if not a single pair could be tested.
func compareGroups(names []string, values [][]float64) (*frame.Frame, bool) {
	table := frame.New("", names, names)
	table.Corner = "Group"
	for i := range names {
		table.Values[i][i] = null.FloatFrom(1)
	}

	var tested []pair
	var raw []float64
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			_, _, p, err := StudentT(values[i], values[j])
			if err != nil {
				continue
			}
			tested = append(tested, pair{i, j})
			raw = append(raw, p)
		}
	}

	if len(tested) == 0 {
		return table, false
	}

	for k, p := range Holm(raw) {
		i, j := tested[k].i, tested[k].j
		table.Values[i][j] = null.FloatFrom(p)
		table.Values[j][i] = null.FloatFrom(p)
	}

	return table, true
}
