package charts

import (
	"bytes"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgsales/internal/models"
)

var pngMagic = []byte("\x89PNG")

func ptr(v float64) *float64 { return &v }

func TestRenderPNG(t *testing.T) {
	regions := orderedmap.New()
	regions.Set("NA_Sales", 148.55)
	regions.Set("EU_Sales", 77.74)
	regions.Set("JP_Sales", 38.59)
	regions.Set("Other_Sales", 20.2)

	tests := []struct {
		name   string
		render func(*bytes.Buffer) error
	}{
		{"distribution", func(b *bytes.Buffer) error {
			return Distribution(b, []models.Bin{{Low: 0, High: 10, Count: 4}, {Low: 10, High: 20, Count: 1}}, Options{})
		}},
		{"years", func(b *bytes.Buffer) error {
			return SalesByYear(b, []models.YearSales{{Year: 2006, Sales: 112.54}, {Year: 2008, Sales: 35.82}}, Options{})
		}},
		{"regions", func(b *bytes.Buffer) error {
			return Regions(b, regions, Options{Width: 640, Height: 480})
		}},
		{"shares", func(b *bytes.Buffer) error {
			return Shares(b, "Top Publishers", []models.Share{
				{Name: "Nintendo", Sales: 283.23, Percent: 99.6},
				{Name: "Electronic Arts", Sales: 1.02, Percent: 0.4},
			}, Options{})
		}},
		{"regression", func(b *bytes.Buffer) error {
			return Regression(b, models.Regression{
				Factor: "NA_Sales",
				N:      3,
				Slope:  ptr(2),
				Points: []models.Point{{X: 1, Y: 2}, {X: 2, Y: 4}, {X: 3, Y: 6.5}},
			}, Options{})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.render(&buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "expected PNG output")
		})
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Format: "svg"}
	require.NoError(t, SalesByYear(&buf, []models.YearSales{{Year: 1985, Sales: 40.24}, {Year: 1989, Sales: 30.26}}, opts))
	assert.Contains(t, buf.String(), "<svg")
	assert.Equal(t, "image/svg+xml", opts.ContentType())
	assert.Equal(t, "image/png", Options{}.ContentType())
}

func TestNotEnoughData(t *testing.T) {
	var buf bytes.Buffer

	assert.ErrorIs(t, Distribution(&buf, nil, Options{}), ErrNotEnoughData)
	assert.ErrorIs(t, SalesByYear(&buf, []models.YearSales{{Year: 2006, Sales: 1}}, Options{}), ErrNotEnoughData)
	assert.ErrorIs(t, Regions(&buf, orderedmap.New(), Options{}), ErrNotEnoughData)
	assert.ErrorIs(t, Regions(&buf, nil, Options{}), ErrNotEnoughData)
	assert.ErrorIs(t, Shares(&buf, "empty", []models.Share{{Name: "x", Sales: 0}}, Options{}), ErrNotEnoughData)
	assert.ErrorIs(t, Regression(&buf, models.Regression{Factor: "Year"}, Options{}), ErrNotEnoughData)
	assert.Zero(t, buf.Len())
}
