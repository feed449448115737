package stats

import (
	"math"
	"sort"
)

// MaxAutoBins caps the bin count picked by the automatic rule.
const MaxAutoBins = 256

// Bucket is one histogram bin. Every bin is half open except the last,
// which includes its upper edge.
type Bucket struct {
	Low, High float64
	Count     int
}

// Histogram counts values into bins equal width buckets spanning their
// range. bins <= 0 selects the count automatically: the smaller of the
// Freedman-Diaconis and Sturges widths, as numpy's "auto" does.
func Histogram(values []float64, bins int) []Bucket {
	data := Clean(values)
	if len(data) == 0 {
		return []Bucket{}
	}
	sort.Float64s(data)
	lo, hi := data[0], data[len(data)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	if bins <= 0 {
		bins = autoBins(data, hi-lo)
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bucket, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range data {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}

func autoBins(sorted []float64, span float64) int {
	n := float64(len(sorted))
	sturges := span / (math.Log2(n) + 1)
	width := sturges
	if iqr := Quantile(sorted, 0.75) - Quantile(sorted, 0.25); iqr > 0 {
		if fd := 2 * iqr / math.Cbrt(n); fd < width {
			width = fd
		}
	}
	bins := int(math.Ceil(span / width))
	if bins < 1 {
		bins = 1
	}
	if bins > MaxAutoBins {
		bins = MaxAutoBins
	}
	return bins
}
