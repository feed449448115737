// Package stats holds the numeric routines behind the dashboard charts:
// quantiles and boxplots, Pearson correlation, least squares fits,
// histogram binning and dataframe style summaries.
//
// NaN inputs are treated as missing and skipped (pairwise for two-column
// functions).
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks. sorted must be ascending and non-empty.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := p * float64(n-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Box is a five number summary with Tukey whiskers.
type Box struct {
	Count                   int
	Min, Q1, Median, Q3     float64
	Max                     float64
	WhiskerLow, WhiskerHigh float64
	Outliers                []float64
}

// Boxplot summarizes values. Whiskers reach the most extreme data points
// within 1.5 IQR of the quartiles; the rest are outliers.
func Boxplot(values []float64) Box {
	sorted := Clean(values)
	sort.Float64s(sorted)
	if len(sorted) == 0 {
		nan := math.NaN()
		return Box{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan, WhiskerLow: nan, WhiskerHigh: nan}
	}

	b := Box{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	iqr := b.Q3 - b.Q1
	loFence, hiFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr

	b.WhiskerLow, b.WhiskerHigh = b.Q1, b.Q3
	for _, v := range sorted {
		if v >= loFence {
			b.WhiskerLow = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hiFence {
			b.WhiskerHigh = sorted[i]
			break
		}
	}
	b.Outliers = []float64{}
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b
}

// Pearson returns the correlation coefficient of the complete (x, y)
// pairs, or NaN with fewer than two pairs or zero variance.
func Pearson(x, y []float64) float64 {
	xs, ys := pairs(x, y)
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

// Fit is an ordinary least squares line y = Intercept + Slope*x.
type Fit struct {
	N         int
	Slope     float64
	Intercept float64
	R         float64
}

// LinearFit regresses y on x over the complete pairs. Slope and Intercept
// are NaN when x has no variance or fewer than two pairs exist.
func LinearFit(x, y []float64) Fit {
	xs, ys := pairs(x, y)
	fit := Fit{N: len(xs), Slope: math.NaN(), Intercept: math.NaN(), R: math.NaN()}
	if fit.N < 2 || constant(xs) {
		return fit
	}
	fit.Intercept, fit.Slope = stat.LinearRegression(xs, ys, nil, false)
	fit.R = Pearson(xs, ys)
	return fit
}

// Clean returns a copy of values without NaNs.
func Clean(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func pairs(x, y []float64) ([]float64, []float64) {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// constant reports whether every value equals the first.
func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
