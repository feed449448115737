package engine

import (
	"math"
	"strconv"
	"strings"
)

// MissingYear marks a row whose release year is N/A in the source file.
const MissingYear int32 = math.MinInt32

// ColumnStore holds the sales records in Struct-of-Arrays format.
// It is built once by the loader and never written to afterwards.
type ColumnStore struct {
	// Identity Columns
	Ranks []int32
	Names []string

	// Data Columns (Flat Arrays)
	Years       []int32 // MissingYear when unknown
	NASales     []float64
	EUSales     []float64
	JPSales     []float64
	OtherSales  []float64
	GlobalSales []float64

	// Dictionary Encoded IDs (0..N)
	PlatformIDs  []int32
	GenreIDs     []int32
	PublisherIDs []int32

	// Dictionaries (ID -> String), in order of first appearance
	PlatformDict  []string
	GenreDict     []string
	PublisherDict []string
}

// Len returns the number of rows in the store.
func (cs *ColumnStore) Len() int { return len(cs.Ranks) }

// Field is one of the four filterable category columns.
type Field int

const (
	FieldPlatform Field = iota
	FieldYear
	FieldGenre
	FieldPublisher
)

// Fields lists the filterable fields in the order filters are applied.
var Fields = []Field{FieldPlatform, FieldYear, FieldGenre, FieldPublisher}

// String returns the CSV column name of the field.
func (f Field) String() string {
	switch f {
	case FieldPlatform:
		return ColPlatform
	case FieldYear:
		return ColYear
	case FieldGenre:
		return ColGenre
	case FieldPublisher:
		return ColPublisher
	default:
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
}

// Param returns the lowercase name used for query parameters and CLI flags.
func (f Field) Param() string { return strings.ToLower(f.String()) }

// ParseField resolves a column name or parameter name to a Field.
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if strings.EqualFold(name, f.String()) {
			return f, true
		}
	}
	return 0, false
}

// key returns the comparable key of a row for a field: the dictionary ID
// for category columns and the year itself for FieldYear.
func (cs *ColumnStore) key(f Field, row int32) int32 {
	switch f {
	case FieldPlatform:
		return cs.PlatformIDs[row]
	case FieldYear:
		return cs.Years[row]
	case FieldGenre:
		return cs.GenreIDs[row]
	default:
		return cs.PublisherIDs[row]
	}
}

// keyOf converts a user supplied value into the key space of the field.
// Values outside the domain report false.
func (cs *ColumnStore) keyOf(f Field, value string) (int32, bool) {
	switch f {
	case FieldYear:
		y, ok := parseYear(value)
		if !ok || y == MissingYear {
			return 0, false
		}
		return y, true
	default:
		for id, v := range cs.dict(f) {
			if v == value {
				return int32(id), true
			}
		}
		return 0, false
	}
}

// label renders a key back into its display string.
func (cs *ColumnStore) label(f Field, key int32) string {
	if f == FieldYear {
		if key == MissingYear {
			return "N/A"
		}
		return strconv.Itoa(int(key))
	}
	return cs.dict(f)[key]
}

func (cs *ColumnStore) dict(f Field) []string {
	switch f {
	case FieldPlatform:
		return cs.PlatformDict
	case FieldGenre:
		return cs.GenreDict
	case FieldPublisher:
		return cs.PublisherDict
	default:
		return nil
	}
}

// parseYear accepts "2006" as well as the float rendering "2006.0".
func parseYear(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int32(f), true
}
