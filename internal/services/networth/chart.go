package networth

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mbeckett/paperfolio/internal/models"
)

// renderHistoryChart renders a PNG line chart from net-worth history rows.
// Two series: Total Net Worth (blue solid) and Cash Balance (gray dashed).
// Returns raw PNG bytes.
func renderHistoryChart(snaps []*models.NetWorthSnapshot) ([]byte, error) {
	if len(snaps) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d: %w", len(snaps), models.ErrInvalidInput)
	}

	xValues := make([]time.Time, len(snaps))
	netWorthY := make([]float64, len(snaps))
	cashY := make([]float64, len(snaps))

	for i, snap := range snaps {
		xValues[i] = snap.Timestamp
		netWorthY[i] = snap.TotalNetWorth.InexactFloat64()
		cashY[i] = snap.CashBalance.InexactFloat64()
	}

	netWorthSeries := chart.TimeSeries{
		Name: "Total Net Worth",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: netWorthY,
	}

	cashSeries := chart.TimeSeries{
		Name: "Cash Balance",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: cashY,
	}

	graph := chart.Chart{
		Title:  "Net Worth",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			netWorthSeries,
			cashSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
