package tool

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/campusops/adminflow/core"
)

// maxChartPoints caps how many rows get plotted; beyond this a chart stops
// being readable and render time grows without benefit.
const maxChartPoints = 24

// ChartAdapter renders bar, line and pie charts to PNG bytes from the rows
// carried in the request. It performs no I/O beyond the in-memory render.
type ChartAdapter struct {
	width, height int
}

// NewChartAdapter constructs a renderer with the default canvas size.
func NewChartAdapter() *ChartAdapter {
	return &ChartAdapter{width: 900, height: 512}
}

// Capability implements Adapter.
func (a *ChartAdapter) Capability() core.Capability { return core.CapabilityChart }

// Invoke implements Adapter.
func (a *ChartAdapter) Invoke(_ context.Context, req Request) core.ToolResult {
	cr, ok := req.(ChartRequest)
	if !ok {
		return badRequest(core.CapabilityChart)
	}
	if len(cr.Rows) == 0 {
		return core.Failed(core.CapabilityChart, core.FailureRejected, "no rows to chart; run a query first")
	}

	kind := cr.Kind
	switch kind {
	case "bar", "line", "pie":
	case "":
		kind = "bar"
	default:
		return core.Failed(core.CapabilityChart, core.FailureRejected, fmt.Sprintf("unsupported chart kind %q", cr.Kind))
	}

	labels, values, err := extractSeries(cr)
	if err != nil {
		return core.Failed(core.CapabilityChart, core.FailureRejected, err.Error())
	}

	var buf bytes.Buffer
	switch kind {
	case "bar":
		err = renderBar(cr.Title, labels, values, a.width, a.height, &buf)
	case "line":
		err = renderLine(cr.Title, values, a.width, a.height, &buf)
	case "pie":
		err = renderPie(labels, values, a.height, &buf)
	}
	if err != nil {
		return core.Failed(core.CapabilityChart, core.FailureInternal, fmt.Sprintf("render %s chart: %v", kind, err))
	}

	return core.OkVisualization(&core.Visualization{
		Data:      buf.Bytes(),
		MediaType: "image/png",
		ChartKind: kind,
	})
}

// extractSeries resolves the label and value columns, falling back to the
// first string column and first numeric column when unspecified.
func extractSeries(cr ChartRequest) ([]string, []float64, error) {
	xField, yField := cr.XField, cr.YField
	if xField == "" || yField == "" {
		for _, col := range cr.Columns {
			v := cr.Rows[0][col]
			if _, isNum := asFloat(v); isNum {
				if yField == "" {
					yField = col
				}
			} else if xField == "" {
				xField = col
			}
		}
	}
	if yField == "" {
		return nil, nil, fmt.Errorf("no numeric column found to plot")
	}

	n := len(cr.Rows)
	if n > maxChartPoints {
		n = maxChartPoints
	}
	labels := make([]string, 0, n)
	values := make([]float64, 0, n)
	for _, row := range cr.Rows[:n] {
		f, ok := asFloat(row[yField])
		if !ok {
			return nil, nil, fmt.Errorf("column %q holds non-numeric value %v", yField, row[yField])
		}
		values = append(values, f)
		if xField != "" {
			labels = append(labels, fmt.Sprintf("%v", row[xField]))
		} else {
			labels = append(labels, fmt.Sprintf("#%d", len(labels)+1))
		}
	}
	return labels, values, nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// valueRange pins the y-axis span explicitly. go-chart refuses to render a
// zero data range, so a uniform series (every value equal) needs the range
// stretched past the data before rendering.
func valueRange(values []float64) *chart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.1}
}

func renderBar(title string, labels []string, values []float64, w, h int, buf *bytes.Buffer) error {
	bars := make([]chart.Value, len(values))
	for i := range values {
		bars[i] = chart.Value{Label: labels[i], Value: values[i]}
	}
	bc := chart.BarChart{
		Title:    title,
		Width:    w,
		Height:   h,
		BarWidth: 40,
		Bars:     bars,
		YAxis:    chart.YAxis{Range: valueRange(values)},
	}
	return bc.Render(chart.PNG, buf)
}

func renderLine(title string, values []float64, w, h int, buf *bytes.Buffer) error {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	lc := chart.Chart{
		Title:  title,
		Width:  w,
		Height: h,
		YAxis:  chart.YAxis{Range: valueRange(values)},
		Series: []chart.Series{chart.ContinuousSeries{XValues: xs, YValues: values}},
	}
	return lc.Render(chart.PNG, buf)
}

func renderPie(labels []string, values []float64, size int, buf *bytes.Buffer) error {
	slices := make([]chart.Value, len(values))
	for i := range values {
		slices[i] = chart.Value{Label: labels[i], Value: values[i]}
	}
	pc := chart.PieChart{
		Width:  size,
		Height: size,
		Values: slices,
	}
	return pc.Render(chart.PNG, buf)
}
