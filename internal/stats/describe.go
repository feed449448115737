package stats

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column is a named numeric vector handed to Describe.
type Column struct {
	Name   string
	Values []float64
}

// DescribeLabels are the summary rows Describe produces, in order.
var DescribeLabels = []string{"count", "mean", "median", "stddev", "min", "25%", "50%", "75%", "max"}

// Summary maps a statistic label to one value per described column.
type Summary struct {
	Columns []string
	Values  map[string][]float64
}

// Describe computes per column summary statistics through a gota
// DataFrame. Missing values are dropped column by column, so each column
// is described over its own complete values; a column with no values
// yields NaN for everything but count.
func Describe(cols []Column) Summary {
	s := Summary{Values: make(map[string][]float64, len(DescribeLabels))}
	for _, c := range cols {
		s.Columns = append(s.Columns, c.Name)
		values := Clean(c.Values)
		s.Values["count"] = append(s.Values["count"], float64(len(values)))

		stats := describeOne(c.Name, values)
		for i, label := range DescribeLabels[1:] {
			s.Values[label] = append(s.Values[label], stats[i])
		}
	}
	return s
}

// describeOne returns mean, median, stddev, min, 25%, 50%, 75%, max.
func describeOne(name string, values []float64) []float64 {
	out := make([]float64, len(DescribeLabels)-1)
	pos := make(map[string]int, len(out))
	for i, label := range DescribeLabels[1:] {
		pos[label] = i
		out[i] = math.NaN()
	}
	if len(values) == 0 {
		return out
	}

	desc := dataframe.New(series.New(values, series.Float, name)).Describe()
	if desc.Err != nil {
		return out
	}
	labels, vals := desc.Col("column").Records(), desc.Col(name).Float()
	for i, label := range labels {
		if j, ok := pos[label]; ok && i < len(vals) {
			out[j] = vals[i]
		}
	}

	// gota picks empirical quantiles; the boxplot interpolates.
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	out[pos["median"]] = Quantile(sorted, 0.5)
	out[pos["25%"]] = Quantile(sorted, 0.25)
	out[pos["50%"]] = Quantile(sorted, 0.5)
	out[pos["75%"]] = Quantile(sorted, 0.75)
	return out
}
