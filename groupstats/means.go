// Package groupstats compares experimental groups gene by gene: the mean and
// spread of the per-sample means within each group, and pairwise t-tests
// between groups with Holm correction.
package groupstats

import (
	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/groups"
	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

// GroupValues collects, for one gene and one group, the defined per-sample
// means of the group's members. Members without a defined mean, or unknown
// to the matrix, are returned separately.
func GroupValues(m *dynmatrix.Matrix, gene string, g *groups.Group) (values []float64, missing []string) {
	for _, sample := range g.Members() {
		mean, err := m.Mean(gene, sample)
		if err != nil || !mean.Valid {
			missing = append(missing, sample)
			continue
		}
		values = append(values, mean.Float64)
	}

	return values, missing
}

// MeansAndErrors computes, for every gene of the matrix and every active
// group, the mean and the population standard deviation of the members'
// per-sample means. The frames have exactly the matrix genes as rows and the
// active group names, in assignment order, as columns. A group with no
// contributing sample for a gene leaves that cell missing.
func MeansAndErrors(m *dynmatrix.Matrix, a *groups.Assignment) (means, errors *frame.Frame) {
	active := a.Active()
	genes := m.Genes()
	names := groups.Names(active)

	means = frame.New("group means", genes, names)
	means.Corner = "Gene"
	errors = frame.New("group errors", genes, names)
	errors.Corner = "Gene"

	for i, gene := range genes {
		for j, g := range active {
			values, _ := GroupValues(m, gene, g)
			if len(values) == 0 {
				continue
			}

			mean, err := stats.Mean(values)
			if err != nil {
				continue
			}
			sd, err := stats.StandardDeviationPopulation(values)
			if err != nil {
				continue
			}

			means.Values[i][j] = null.FloatFrom(mean)
			errors.Values[i][j] = null.FloatFrom(sd)
		}
	}

	return means, errors
}
