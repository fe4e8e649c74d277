package simulation

import (
	"fmt"
	"sort"

	"nestegg/internal/core"
)

// DefaultChartPoints is the display resolution when the caller does not
// ask for one.
const DefaultChartPoints = 12

// ChartPoint is one downsampled display point. Series maps scenario name
// to net worth in units of 10,000 won.
type ChartPoint struct {
	Month  string           `json:"month"`
	Series map[string]int64 `json:"series"`
}

// FormatProjectionsForChart downsamples the scenarios' projections to
// roughly samplePoints display points. Months where any scenario carries
// a life-event label are always kept, so event spikes survive the
// downsampling.
func FormatProjectionsForChart(scenarios []core.ScenarioResult, samplePoints int) []ChartPoint {
	if len(scenarios) == 0 {
		return nil
	}
	if samplePoints <= 0 {
		samplePoints = DefaultChartPoints
	}

	totalMonths := len(scenarios[0].Projections)
	step := totalMonths / samplePoints
	if step < 1 {
		step = 1
	}

	keep := make(map[int]bool)
	for i := 0; i < totalMonths; i += step {
		keep[i] = true
	}
	for _, s := range scenarios {
		for i, p := range s.Projections {
			if len(p.Events) > 0 {
				keep[i] = true
			}
		}
	}

	indices := make([]int, 0, len(keep))
	for i := range keep {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	points := make([]ChartPoint, 0, len(indices))
	for _, i := range indices {
		point := ChartPoint{
			Month:  fmt.Sprintf("%d년", i/12),
			Series: make(map[string]int64, len(scenarios)),
		}
		for _, s := range scenarios {
			if i < len(s.Projections) {
				point.Series[s.Name] = core.RoundWon(float64(s.Projections[i].NetWorth) / 10_000)
			}
		}
		points = append(points, point)
	}

	return points
}
