package engine

import (
	"fmt"
	"math"

	"vgsales/internal/models"
)

// Numeric column names in file order. These are the columns a numeric
// dtype selection over the raw CSV would yield.
var NumericColumns = []string{
	ColRank, ColYear, ColNASales, ColEUSales, ColJPSales, ColOtherSales, ColGlobalSales,
}

// Dataset is a read-only view over a ColumnStore: the store is shared,
// the row index list belongs to the view.
type Dataset struct {
	store   *ColumnStore
	rows    []int32
	applied Selections
}

// NewDataset returns a view over every row of the store.
func NewDataset(store *ColumnStore) *Dataset {
	rows := make([]int32, store.Len())
	for i := range rows {
		rows[i] = int32(i)
	}
	return &Dataset{store: store, rows: rows}
}

// Len returns the number of rows in the view.
func (d *Dataset) Len() int { return len(d.rows) }

// Store returns the backing store. Callers must not modify it.
func (d *Dataset) Store() *ColumnStore { return d.store }

// RowIndex returns the store row of the i-th record in the view.
func (d *Dataset) RowIndex(i int) int { return int(d.rows[i]) }

// Applied returns the selections that produced this view, each reordered
// into its field's natural order. It is empty for an unfiltered view.
func (d *Dataset) Applied() Selections {
	out := make(Selections, len(d.applied))
	for f, v := range d.applied {
		out[f] = append([]string(nil), v...)
	}
	return out
}

// Record materializes the i-th row of the view.
func (d *Dataset) Record(i int) models.Game {
	r := d.rows[i]
	cs := d.store
	g := models.Game{
		Rank:        int(cs.Ranks[r]),
		Name:        cs.Names[r],
		Platform:    cs.PlatformDict[cs.PlatformIDs[r]],
		Genre:       cs.GenreDict[cs.GenreIDs[r]],
		Publisher:   cs.PublisherDict[cs.PublisherIDs[r]],
		NASales:     cs.NASales[r],
		EUSales:     cs.EUSales[r],
		JPSales:     cs.JPSales[r],
		OtherSales:  cs.OtherSales[r],
		GlobalSales: cs.GlobalSales[r],
	}
	if y := cs.Years[r]; y != MissingYear {
		year := int(y)
		g.Year = &year
	}
	return g
}

// Records materializes rows [offset, offset+limit) of the view. A
// non-positive limit or an offset past the end yields an empty page.
func (d *Dataset) Records(offset, limit int) []models.Game {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= d.Len() {
		return []models.Game{}
	}
	end := offset + min(limit, d.Len()-offset)
	out := make([]models.Game, 0, end-offset)
	for i := offset; i < end; i++ {
		out = append(out, d.Record(i))
	}
	return out
}

// Domain lists the distinct values of a field in order of first appearance
// within the view. Missing years are not part of the year domain.
func (d *Dataset) Domain(f Field) []string {
	var out []string
	for _, k := range d.firstSeen(f) {
		if f == FieldYear && k == MissingYear {
			continue
		}
		out = append(out, d.store.label(f, k))
	}
	return out
}

// Column returns the values of a numeric column over the view. Missing
// years come back as NaN.
func (d *Dataset) Column(name string) ([]float64, error) {
	get, err := d.store.getter(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		out[i] = get(r)
	}
	return out, nil
}

// getter returns a row accessor for a numeric column.
func (cs *ColumnStore) getter(name string) (func(r int32) float64, error) {
	switch name {
	case ColRank:
		return func(r int32) float64 { return float64(cs.Ranks[r]) }, nil
	case ColYear:
		return func(r int32) float64 {
			if cs.Years[r] == MissingYear {
				return math.NaN()
			}
			return float64(cs.Years[r])
		}, nil
	case ColNASales:
		return func(r int32) float64 { return cs.NASales[r] }, nil
	case ColEUSales:
		return func(r int32) float64 { return cs.EUSales[r] }, nil
	case ColJPSales:
		return func(r int32) float64 { return cs.JPSales[r] }, nil
	case ColOtherSales:
		return func(r int32) float64 { return cs.OtherSales[r] }, nil
	case ColGlobalSales:
		return func(r int32) float64 { return cs.GlobalSales[r] }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
}

// Head returns a view of the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n > d.Len() {
		n = d.Len()
	}
	if n < 0 {
		n = 0
	}
	return &Dataset{store: d.store, rows: append([]int32(nil), d.rows[:n]...), applied: d.applied}
}
