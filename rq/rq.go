// Package rq computes relative quantification ratios: the aggregated Cp mean
// of a gene of interest divided by the geometric mean of one or more
// reference genes in the same sample.
package rq

import (
	"errors"

	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/groups"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"
)

var (
	ErrInsufficientReference = errors.New("at least one reference gene is required")
	ErrInsufficientInterest  = errors.New("at least one gene of interest is required")
)

// GeometricMeans returns, aligned with samples, the geometric mean of each
// sample's aggregated means across the reference genes. A sample for which
// any reference mean is missing or not positive gets a missing value. If
// samples is nil, every sample of the matrix is used.
func GeometricMeans(m *dynmatrix.Matrix, references, samples []string) ([]null.Float, error) {
	if len(references) == 0 {
		return nil, ErrInsufficientReference
	}
	if samples == nil {
		samples = m.Samples()
	}

	out := make([]null.Float, len(samples))
	values := make([]float64, len(references))
Samples:
	for i, sample := range samples {
		for j, ref := range references {
			mean, err := m.Mean(ref, sample)
			if err != nil {
				return nil, err
			}
			if !mean.Valid || mean.Float64 <= 0 {
				continue Samples
			}
			values[j] = mean.Float64
		}
		out[i] = null.FloatFrom(stat.GeometricMean(values, nil))
	}

	return out, nil
}

// Matrix returns the interest gene x sample frame of ratios, rounded to 3
// decimals. If samples is nil, every sample of the matrix is used.
func Matrix(m *dynmatrix.Matrix, interest, references, samples []string) (*frame.Frame, error) {
	if samples == nil {
		samples = m.Samples()
	}

	ratios, err := ratios(m, interest, references, samples)
	if err != nil {
		return nil, err
	}

	f := frame.New("rq matrix", interest, samples)
	f.Corner = "Gene"
	for i := range interest {
		for j := range samples {
			f.Values[i][j] = dynmatrix.RoundNull(ratios[i][j])
		}
	}

	return f, nil
}

// ByGroup returns the interest gene x active group frame holding, for each
// group, the mean of its members' per-sample ratios, rounded to 3 decimals.
// Members unknown to the matrix or without a ratio do not contribute.
func ByGroup(m *dynmatrix.Matrix, interest, references []string, a *groups.Assignment) (*frame.Frame, error) {
	samples := m.Samples()
	ratios, err := ratios(m, interest, references, samples)
	if err != nil {
		return nil, err
	}

	pos := make(map[string]int, len(samples))
	for j, s := range samples {
		pos[s] = j
	}

	active := a.Active()
	f := frame.New("rq by group", interest, groups.Names(active))
	f.Corner = "Gene"
	for i := range interest {
		for k, g := range active {
			var values []float64
			for _, member := range g.Members() {
				j, ok := pos[member]
				if !ok || !ratios[i][j].Valid {
					continue
				}
				values = append(values, ratios[i][j].Float64)
			}
			if len(values) == 0 {
				continue
			}
			mean, err := stats.Mean(values)
			if err != nil {
				continue
			}
			f.Values[i][k] = null.FloatFrom(dynmatrix.Round3(mean))
		}
	}

	return f, nil
}

// ratios computes the unrounded interest x sample ratios.
func ratios(m *dynmatrix.Matrix, interest, references, samples []string) ([][]null.Float, error) {
	if len(references) == 0 {
		return nil, ErrInsufficientReference
	}
	if len(interest) == 0 {
		return nil, ErrInsufficientInterest
	}

	geo, err := GeometricMeans(m, references, samples)
	if err != nil {
		return nil, err
	}

	out := make([][]null.Float, len(interest))
	for i, gene := range interest {
		out[i] = make([]null.Float, len(samples))
		for j, sample := range samples {
			mean, err := m.Mean(gene, sample)
			if err != nil {
				return nil, err
			}
			if !mean.Valid || !geo[j].Valid {
				continue
			}
			out[i][j] = null.FloatFrom(mean.Float64 / geo[j].Float64)
		}
	}

	return out, nil
}
