package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
)

var ErrNoData = errors.New("no group has a mean for this gene")

// MeansAndErrorsPNG draws one bar per group for gene, labelled with the
// group name and its error. Groups without a mean are left out.
func MeansAndErrorsPNG(w io.Writer, gene string, means, errs *frame.Frame) error {
	meanRow, err := means.Row(gene)
	if err != nil {
		return err
	}
	errRow, err := errs.Row(gene)
	if err != nil {
		return err
	}

	var bars []chart.Value
	top := 0.0
	for j, group := range means.Columns {
		if !meanRow[j].Valid {
			continue
		}

		label := group
		height := meanRow[j].Float64
		if j < len(errRow) && errRow[j].Valid {
			label = fmt.Sprintf("%s (±%s)", group, frame.FormatFloat(errRow[j]))
			height += errRow[j].Float64
		}
		top = math.Max(top, height)

		bars = append(bars, chart.Value{Label: label, Value: meanRow[j].Float64})
	}
	if len(bars) == 0 {
		return ErrNoData
	}
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:    gene,
		Width:    200 + 180*len(bars),
		Height:   512,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return pfx.Err(err)
	}

	return nil
}
