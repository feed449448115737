package engine

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/iancoleman/orderedmap"
	"github.com/shopspring/decimal"

	"vgsales/internal/models"
	"vgsales/internal/stats"
)

// Rows below this count per worker are not worth a goroutine.
const minRowsPerWorker = 4096

// RegionColumns are the per-region sales columns, in display order.
var RegionColumns = []string{ColNASales, ColEUSales, ColJPSales, ColOtherSales}

// AggregateOptions tunes the insight computations.
type AggregateOptions struct {
	TopN int // slices per market share pie; <= 0 means 10
	Bins int // histogram bins; <= 0 picks automatically
}

// Aggregate computes every chart payload over the view.
func (d *Dataset) Aggregate(opts AggregateOptions) *models.Insights {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	return &models.Insights{
		Rows:          d.Len(),
		Distribution:  d.Distribution(opts.Bins),
		SalesByYear:   d.SalesByYear(),
		Regions:       d.RegionTotals(),
		TopPublishers: d.TopShares(FieldPublisher, opts.TopN),
		TopPlatforms:  d.TopShares(FieldPlatform, opts.TopN),
		Genres:        d.GenreBoxplots(),
		Correlation:   d.Correlation(),
		Scatter:       d.ScatterMatrix(),
	}
}

type partialAgg struct {
	sums   []float64
	counts []int
}

// groupSum adds value(r) into bucket key(r) for every row of the view.
// Rows are split across workers; partials are merged in worker order so
// the floating point result does not depend on scheduling. Negative keys
// are skipped.
func (d *Dataset) groupSum(size int, key func(r int32) int, value func(r int32) float64) ([]float64, []int) {
	n := len(d.rows)
	numWorkers := runtime.NumCPU()
	if w := n / minRowsPerWorker; w < numWorkers {
		numWorkers = max(w, 1)
	}
	chunkSize := n / numWorkers

	partials := make([]*partialAgg, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == numWorkers-1 {
			end = n
		}

		wg.Add(1)
		go func(idx, s, e int) {
			defer wg.Done()
			p := &partialAgg{sums: make([]float64, size), counts: make([]int, size)}
			rows := d.rows
			for j := s; j < e; j++ {
				r := rows[j]
				k := key(r)
				if k < 0 {
					continue
				}
				p.sums[k] += value(r)
				p.counts[k]++
			}
			partials[idx] = p
		}(i, start, end)
	}
	wg.Wait()

	sums := make([]float64, size)
	counts := make([]int, size)
	for _, p := range partials {
		for i := 0; i < size; i++ {
			sums[i] += p.sums[i]
			counts[i] += p.counts[i]
		}
	}
	return sums, counts
}

// firstSeen returns the distinct keys of a field in order of first
// appearance within the view.
func (d *Dataset) firstSeen(f Field) []int32 {
	seen := make(map[int32]struct{})
	var out []int32
	for _, r := range d.rows {
		k := d.store.key(f, r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Distribution bins Global_Sales.
func (d *Dataset) Distribution(bins int) []models.Bin {
	values, _ := d.Column(ColGlobalSales)
	buckets := stats.Histogram(values, bins)
	out := make([]models.Bin, len(buckets))
	for i, b := range buckets {
		out[i] = models.Bin{Low: b.Low, High: b.High, Count: b.Count}
	}
	return out
}

// SalesByYear sums Global_Sales per release year, ascending. Rows without
// a year are left out.
func (d *Dataset) SalesByYear() []models.YearSales {
	cs := d.store
	years := make([]int32, 0)
	for _, y := range d.firstSeen(FieldYear) {
		if y != MissingYear {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return []models.YearSales{}
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	slot := make(map[int32]int, len(years))
	for i, y := range years {
		slot[y] = i
	}

	sums, _ := d.groupSum(len(years),
		func(r int32) int {
			if i, ok := slot[cs.Years[r]]; ok {
				return i
			}
			return -1
		},
		func(r int32) float64 { return cs.GlobalSales[r] },
	)

	out := make([]models.YearSales, len(years))
	for i, y := range years {
		out[i] = models.YearSales{Year: int(y), Sales: sums[i]}
	}
	return out
}

// RegionTotals sums each regional sales column, keyed in RegionColumns order.
func (d *Dataset) RegionTotals() *orderedmap.OrderedMap {
	om := orderedmap.New()
	for _, col := range RegionColumns {
		get, _ := d.store.getter(col)
		sums, _ := d.groupSum(1, func(int32) int { return 0 }, get)
		om.Set(col, sums[0])
	}
	return om
}

// TopShares ranks the values of a category field by summed Global_Sales
// and returns the n largest with their share of the returned total.
// Ties keep first-appearance order.
func (d *Dataset) TopShares(f Field, n int) []models.Share {
	cs := d.store
	sums, counts := d.groupSum(len(cs.dict(f)),
		func(r int32) int { return int(cs.key(f, r)) },
		func(r int32) float64 { return cs.GlobalSales[r] },
	)

	out := make([]models.Share, 0)
	for _, k := range d.firstSeen(f) {
		if counts[k] > 0 {
			out = append(out, models.Share{Name: cs.label(f, k), Sales: sums[k]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	if n > 0 && len(out) > n {
		out = out[:n]
	}

	total := decimal.Zero
	for _, s := range out {
		total = total.Add(decimal.NewFromFloat(s.Sales))
	}
	if total.IsZero() {
		return out
	}
	hundred := decimal.NewFromInt(100)
	for i := range out {
		out[i].Percent = decimal.NewFromFloat(out[i].Sales).Mul(hundred).Div(total).Round(1).InexactFloat64()
	}
	return out
}

// GenreBoxplots summarizes Global_Sales per genre, genres in natural order.
func (d *Dataset) GenreBoxplots() []models.GenreBox {
	cs := d.store
	groups := make(map[int32][]float64)
	for _, r := range d.rows {
		groups[cs.GenreIDs[r]] = append(groups[cs.GenreIDs[r]], cs.GlobalSales[r])
	}

	out := make([]models.GenreBox, 0, len(groups))
	for _, k := range d.firstSeen(FieldGenre) {
		b := stats.Boxplot(groups[k])
		out = append(out, models.GenreBox{
			Genre: cs.GenreDict[k],
			BoxStats: models.BoxStats{
				Count:       b.Count,
				Min:         b.Min,
				Q1:          b.Q1,
				Median:      b.Median,
				Q3:          b.Q3,
				Max:         b.Max,
				WhiskerLow:  b.WhiskerLow,
				WhiskerHigh: b.WhiskerHigh,
				Outliers:    b.Outliers,
			},
		})
	}
	return out
}

// Correlation computes the pairwise complete Pearson matrix over
// NumericColumns.
func (d *Dataset) Correlation() models.Correlation {
	cols := d.numericColumns()
	m := models.Correlation{
		Columns: append([]string(nil), NumericColumns...),
		Matrix:  make([][]*float64, len(cols)),
	}
	for i := range cols {
		m.Matrix[i] = make([]*float64, len(cols))
		for j := range cols {
			if j < i {
				m.Matrix[i][j] = m.Matrix[j][i]
				continue
			}
			m.Matrix[i][j] = Nullable(stats.Pearson(cols[i], cols[j]))
		}
	}
	return m
}

// ScatterMatrix returns the NumericColumns vectors for pairwise plots.
func (d *Dataset) ScatterMatrix() models.ScatterMatrix {
	cols := d.numericColumns()
	sm := models.ScatterMatrix{
		Columns: append([]string(nil), NumericColumns...),
		Values:  make([][]*float64, len(cols)),
	}
	for i, c := range cols {
		sm.Values[i] = make([]*float64, len(c))
		for j, v := range c {
			sm.Values[i][j] = Nullable(v)
		}
	}
	return sm
}

// Regression fits Global_Sales against each factor. Global_Sales itself is
// skipped; an unknown factor is an error.
func (d *Dataset) Regression(factors []string) ([]models.Regression, error) {
	y, _ := d.Column(ColGlobalSales)
	out := make([]models.Regression, 0, len(factors))
	for _, factor := range factors {
		if factor == ColGlobalSales {
			continue
		}
		x, err := d.Column(factor)
		if err != nil {
			return nil, fmt.Errorf("regression: %w", err)
		}
		fit := stats.LinearFit(x, y)
		reg := models.Regression{
			Factor:    factor,
			N:         fit.N,
			Slope:     Nullable(fit.Slope),
			Intercept: Nullable(fit.Intercept),
			R:         Nullable(fit.R),
			Points:    make([]models.Point, 0, fit.N),
		}
		for i := range x {
			if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
				continue
			}
			reg.Points = append(reg.Points, models.Point{X: x[i], Y: y[i]})
		}
		out = append(out, reg)
	}
	return out, nil
}

// Describe summarizes NumericColumns over the view.
func (d *Dataset) Describe() models.Describe {
	cols := d.numericColumns()
	in := make([]stats.Column, len(cols))
	for i, c := range cols {
		in[i] = stats.Column{Name: NumericColumns[i], Values: c}
	}
	summary := stats.Describe(in)

	out := models.Describe{Columns: summary.Columns, Rows: make([]*orderedmap.OrderedMap, 0, len(stats.DescribeLabels))}
	for _, label := range stats.DescribeLabels {
		row := orderedmap.New()
		row.Set("stat", label)
		for i, name := range summary.Columns {
			row.Set(name, Nullable(summary.Values[label][i]))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func (d *Dataset) numericColumns() [][]float64 {
	cols := make([][]float64, len(NumericColumns))
	for i, name := range NumericColumns {
		cols[i], _ = d.Column(name)
	}
	return cols
}

// Nullable maps NaN and infinities to nil so they encode as JSON null.
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
