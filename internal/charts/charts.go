// Package charts renders insight payloads as PNG or SVG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/iancoleman/orderedmap"
	"github.com/wcharczuk/go-chart/v2"

	"vgsales/internal/models"
)

// ErrNotEnoughData is returned when a payload cannot be drawn, for example
// a line with a single point or a pie whose slices sum to zero.
var ErrNotEnoughData = errors.New("not enough data to render chart")

// Options controls image size and encoding.
type Options struct {
	Width  int
	Height int
	Format string // "png" (default) or "svg"
}

// ContentType returns the MIME type matching Format.
func (o Options) ContentType() string {
	if o.Format == "svg" {
		return "image/svg+xml"
	}
	return "image/png"
}

func (o Options) renderer() chart.RendererProvider {
	if o.Format == "svg" {
		return chart.SVG
	}
	return chart.PNG
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1024
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

// Distribution draws the Global_Sales histogram as adjacent bars.
func Distribution(w io.Writer, bins []models.Bin, opts Options) error {
	bars := make([]chart.Value, 0, len(bins))
	nonZero := false
	for _, b := range bins {
		bars = append(bars, chart.Value{
			Label: strconv.FormatFloat(b.Low, 'f', 2, 64),
			Value: float64(b.Count),
		})
		nonZero = nonZero || b.Count > 0
	}
	if !nonZero {
		return ErrNotEnoughData
	}
	return barChart(w, "Distribution of Global Sales", bars, opts)
}

// SalesByYear draws total Global_Sales per year as a line.
func SalesByYear(w io.Writer, series []models.YearSales, opts Options) error {
	if len(series) < 2 {
		return ErrNotEnoughData
	}
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i], ys[i] = float64(p.Year), p.Sales
	}

	width, height := opts.size()
	graph := chart.Chart{
		Title:  "Sales Trend Over Years",
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name: "Year",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{Name: "Global Sales"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Global Sales", XValues: xs, YValues: ys},
		},
	}
	return render(w, graph.Render, opts)
}

// Regions draws the total sales per region as bars.
func Regions(w io.Writer, totals *orderedmap.OrderedMap, opts Options) error {
	if totals == nil {
		return ErrNotEnoughData
	}
	bars := make([]chart.Value, 0, len(totals.Keys()))
	nonZero := false
	for _, k := range totals.Keys() {
		v, _ := totals.Get(k)
		f, _ := v.(float64)
		bars = append(bars, chart.Value{Label: k, Value: f})
		nonZero = nonZero || f != 0
	}
	if !nonZero {
		return ErrNotEnoughData
	}
	return barChart(w, "Sales Comparison Across Regions", bars, opts)
}

// Shares draws a market share pie; labels carry the percentage.
func Shares(w io.Writer, title string, shares []models.Share, opts Options) error {
	values := make([]chart.Value, 0, len(shares))
	var total float64
	for _, s := range shares {
		if s.Sales <= 0 {
			continue
		}
		total += s.Sales
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Name, s.Percent),
			Value: s.Sales,
		})
	}
	if len(values) == 0 || total == 0 {
		return ErrNotEnoughData
	}

	width, height := opts.size()
	pie := chart.PieChart{
		Title:  title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return render(w, pie.Render, opts)
}

// Regression draws factor against Global_Sales with the fitted line.
func Regression(w io.Writer, reg models.Regression, opts Options) error {
	if reg.Slope == nil || len(reg.Points) < 2 {
		return ErrNotEnoughData
	}
	xs := make([]float64, len(reg.Points))
	ys := make([]float64, len(reg.Points))
	for i, p := range reg.Points {
		xs[i], ys[i] = p.X, p.Y
	}

	points := chart.ContinuousSeries{
		Name: reg.Factor,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    3,
		},
		XValues: xs,
		YValues: ys,
	}
	fit := &chart.LinearRegressionSeries{Name: "fit", InnerSeries: points}

	width, height := opts.size()
	graph := chart.Chart{
		Title:  reg.Factor + " vs Global Sales",
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Name: reg.Factor},
		YAxis:  chart.YAxis{Name: "Global Sales"},
		Series: []chart.Series{points, fit},
	}
	return render(w, graph.Render, opts)
}

func barChart(w io.Writer, title string, bars []chart.Value, opts Options) error {
	width, height := opts.size()
	barWidth := (width - 120) / max(len(bars), 1)
	spacing := max(barWidth/5, 1)
	barWidth = max(barWidth-spacing, 1)

	var lo, hi float64
	for _, b := range bars {
		lo, hi = min(lo, b.Value), max(hi, b.Value)
	}
	if hi == lo {
		hi = lo + 1
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.05}},
		Bars:       bars,
	}
	return render(w, bc.Render, opts)
}

func render(w io.Writer, fn func(chart.RendererProvider, io.Writer) error, opts Options) error {
	if err := fn(opts.renderer(), w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
