package experiment

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderStepsChart plots mean steps-to-clean against agent count as a PNG.
// Groups where no run finished cleaning are skipped.
func RenderStepsChart(w io.Writer, sums []GroupSummary) error {
	var xs, ys []float64
	for _, gs := range sums {
		if gs.CleanedRuns == 0 {
			continue
		}
		xs = append(xs, float64(gs.Agents))
		ys = append(ys, gs.StepsMean)
	}
	return renderLine(w, "steps to clean", xs, ys)
}

// RenderMovementsChart plots mean total movements against agent count.
func RenderMovementsChart(w io.Writer, sums []GroupSummary) error {
	var xs, ys []float64
	for _, gs := range sums {
		xs = append(xs, float64(gs.Agents))
		ys = append(ys, gs.MovesMean)
	}
	return renderLine(w, "total movements", xs, ys)
}

func renderLine(w io.Writer, name string, xs, ys []float64) error {
	if len(xs) < 2 {
		return fmt.Errorf("chart %q needs at least two points, have %d", name, len(xs))
	}
	graph := chart.Chart{
		Width:  800,
		Height: 500,
		XAxis: chart.XAxis{
			Name: "agents",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{Name: name},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				XValues: xs,
				YValues: ys,
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q chart: %w", name, err)
	}
	return nil
}
