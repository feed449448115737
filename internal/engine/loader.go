package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSV column names. Matching is exact and case-sensitive.
const (
	ColRank        = "Rank"
	ColName        = "Name"
	ColPlatform    = "Platform"
	ColYear        = "Year"
	ColGenre       = "Genre"
	ColPublisher   = "Publisher"
	ColNASales     = "NA_Sales"
	ColEUSales     = "EU_Sales"
	ColJPSales     = "JP_Sales"
	ColOtherSales  = "Other_Sales"
	ColGlobalSales = "Global_Sales"
)

var requiredColumns = []string{
	ColRank, ColName, ColPlatform, ColYear, ColGenre, ColPublisher,
	ColNASales, ColEUSales, ColJPSales, ColOtherSales, ColGlobalSales,
}

// dictionary interns category strings, assigning IDs in first-seen order.
type dictionary struct {
	ids  map[string]int32
	list []string
}

func newDictionary() *dictionary {
	return &dictionary{ids: make(map[string]int32)}
}

func (d *dictionary) intern(s string) int32 {
	if id, ok := d.ids[s]; ok {
		return id
	}
	id := int32(len(d.list))
	d.list = append(d.list, s)
	d.ids[s] = id
	return id
}

// LoadColumnar reads the CSV at path into a ColumnStore.
func LoadColumnar(path string) (*ColumnStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	store, err := ReadColumnar(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return store, nil
}

// ReadColumnar parses CSV from r into a ColumnStore. Any malformed row
// fails the whole load.
func ReadColumnar(r io.Reader) (*ColumnStore, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimPrefix(h, "\ufeff")] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[name] = i
	}

	store := &ColumnStore{}
	platforms, genres, publishers := newDictionary(), newDictionary(), newDictionary()

	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}

		rank, err := strconv.ParseInt(strings.TrimSpace(rec[cols[ColRank]]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: rank %q", ErrMalformedRow, line, rec[cols[ColRank]])
		}
		year := MissingYear
		if raw := strings.TrimSpace(rec[cols[ColYear]]); raw != "" && raw != "N/A" {
			y, ok := parseYear(raw)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: year %q", ErrMalformedRow, line, raw)
			}
			year = y
		}

		var sales [5]float64
		for i, name := range []string{ColNASales, ColEUSales, ColJPSales, ColOtherSales, ColGlobalSales} {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[name]]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s %q", ErrMalformedRow, line, name, rec[cols[name]])
			}
			sales[i] = v
		}

		store.Ranks = append(store.Ranks, int32(rank))
		store.Names = append(store.Names, rec[cols[ColName]])
		store.Years = append(store.Years, year)
		store.NASales = append(store.NASales, sales[0])
		store.EUSales = append(store.EUSales, sales[1])
		store.JPSales = append(store.JPSales, sales[2])
		store.OtherSales = append(store.OtherSales, sales[3])
		store.GlobalSales = append(store.GlobalSales, sales[4])
		store.PlatformIDs = append(store.PlatformIDs, platforms.intern(rec[cols[ColPlatform]]))
		store.GenreIDs = append(store.GenreIDs, genres.intern(rec[cols[ColGenre]]))
		store.PublisherIDs = append(store.PublisherIDs, publishers.intern(rec[cols[ColPublisher]]))
	}

	if store.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	store.PlatformDict = platforms.list
	store.GenreDict = genres.list
	store.PublisherDict = publishers.list
	return store, nil
}
