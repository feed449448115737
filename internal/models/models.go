package models

import "github.com/iancoleman/orderedmap"

// Game is one row of the sales dataset as served to clients.
type Game struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Platform    string  `json:"platform"`
	Year        *int    `json:"year"`
	Genre       string  `json:"genre"`
	Publisher   string  `json:"publisher"`
	NASales     float64 `json:"na_sales"`
	EUSales     float64 `json:"eu_sales"`
	JPSales     float64 `json:"jp_sales"`
	OtherSales  float64 `json:"other_sales"`
	GlobalSales float64 `json:"global_sales"`
}

// Page is a paginated slice of filtered games.
type Page struct {
	Data    []Game              `json:"data"`
	Total   int                 `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
	Applied map[string][]string `json:"applied"`
}

// Bin is one histogram bucket, [Low, High) except the last which is closed.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

type YearSales struct {
	Year  int     `json:"year"`
	Sales float64 `json:"sales"`
}

// Share is one slice of a market share pie.
type Share struct {
	Name    string  `json:"name"`
	Sales   float64 `json:"sales"`
	Percent float64 `json:"percent"`
}

type BoxStats struct {
	Count       int       `json:"count"`
	Min         float64   `json:"min"`
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	Max         float64   `json:"max"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers"`
}

type GenreBox struct {
	Genre string `json:"genre"`
	BoxStats
}

// Correlation is a square Pearson matrix; nil cells are undefined
// (zero variance or fewer than two complete pairs).
type Correlation struct {
	Columns []string     `json:"columns"`
	Matrix  [][]*float64 `json:"matrix"`
}

// ScatterMatrix carries one value vector per numeric column, row aligned.
type ScatterMatrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Regression is an ordinary least squares fit of Global_Sales on Factor.
type Regression struct {
	Factor    string   `json:"factor"`
	N         int      `json:"n"`
	Slope     *float64 `json:"slope"`
	Intercept *float64 `json:"intercept"`
	R         *float64 `json:"r"`
	Points    []Point  `json:"points"`
}

// Insights bundles every chart payload computed over one filtered subset.
type Insights struct {
	Rows          int                    `json:"rows"`
	Distribution  []Bin                  `json:"distribution"`
	SalesByYear   []YearSales            `json:"sales_by_year"`
	Regions       *orderedmap.OrderedMap `json:"regions"`
	TopPublishers []Share                `json:"top_publishers"`
	TopPlatforms  []Share                `json:"top_platforms"`
	Genres        []GenreBox             `json:"genres"`
	Correlation   Correlation            `json:"correlation"`
	Scatter       ScatterMatrix          `json:"scatter"`
}

// Describe is a summary statistics table; each row is an ordered object.
type Describe struct {
	Columns []string                 `json:"columns"`
	Rows    []*orderedmap.OrderedMap `json:"rows"`
}
