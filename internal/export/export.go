// Package export writes filtered datasets as Parquet or CSV by way of an
// Arrow table.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"vgsales/internal/engine"
)

// Format is a supported export encoding.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
)

// ErrUnsupportedFormat is returned for formats other than the ones above.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatParquet, FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatParquet:
		return "application/vnd.apache.parquet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv"
	}
}

// Schema is the Arrow schema of an exported dataset. Year is nullable.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: engine.ColRank, Type: arrow.PrimitiveTypes.Int64},
	{Name: engine.ColName, Type: arrow.BinaryTypes.String},
	{Name: engine.ColPlatform, Type: arrow.BinaryTypes.String},
	{Name: engine.ColYear, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	{Name: engine.ColGenre, Type: arrow.BinaryTypes.String},
	{Name: engine.ColPublisher, Type: arrow.BinaryTypes.String},
	{Name: engine.ColNASales, Type: arrow.PrimitiveTypes.Float64},
	{Name: engine.ColEUSales, Type: arrow.PrimitiveTypes.Float64},
	{Name: engine.ColJPSales, Type: arrow.PrimitiveTypes.Float64},
	{Name: engine.ColOtherSales, Type: arrow.PrimitiveTypes.Float64},
	{Name: engine.ColGlobalSales, Type: arrow.PrimitiveTypes.Float64},
}, nil)

// Record copies the view into a single Arrow record. The caller releases it.
func Record(ds *engine.Dataset, mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, Schema)
	defer b.Release()

	cs := ds.Store()
	floats := [][]float64{cs.NASales, cs.EUSales, cs.JPSales, cs.OtherSales, cs.GlobalSales}
	for i := 0; i < ds.Len(); i++ {
		r := ds.RowIndex(i)
		b.Field(0).(*array.Int64Builder).Append(int64(cs.Ranks[r]))
		b.Field(1).(*array.StringBuilder).Append(cs.Names[r])
		b.Field(2).(*array.StringBuilder).Append(cs.PlatformDict[cs.PlatformIDs[r]])
		if y := cs.Years[r]; y == engine.MissingYear {
			b.Field(3).(*array.Int64Builder).AppendNull()
		} else {
			b.Field(3).(*array.Int64Builder).Append(int64(y))
		}
		b.Field(4).(*array.StringBuilder).Append(cs.GenreDict[cs.GenreIDs[r]])
		b.Field(5).(*array.StringBuilder).Append(cs.PublisherDict[cs.PublisherIDs[r]])
		for j, col := range floats {
			b.Field(6 + j).(*array.Float64Builder).Append(col[r])
		}
	}
	return b.NewRecord()
}

// Table wraps the view as an Arrow table. The caller releases it.
func Table(ds *engine.Dataset, mem memory.Allocator) arrow.Table {
	rec := Record(ds, mem)
	defer rec.Release()
	return array.NewTableFromRecords(Schema, []arrow.Record{rec})
}

// Write encodes the view in the given format. JSON is left to callers
// with their own encoders.
func Write(w io.Writer, ds *engine.Dataset, f Format) error {
	switch f {
	case FormatParquet:
		return WriteParquet(w, ds)
	case FormatCSV:
		return WriteCSV(w, ds)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteParquet writes the view as a Snappy compressed Parquet file.
func WriteParquet(w io.Writer, ds *engine.Dataset) error {
	table := Table(ds, memory.NewGoAllocator())
	defer table.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteCSV writes the view with a header row; missing years are "N/A".
func WriteCSV(w io.Writer, ds *engine.Dataset) error {
	rec := Record(ds, memory.NewGoAllocator())
	defer rec.Release()

	writer := arrowcsv.NewWriter(w, Schema, arrowcsv.WithHeader(true), arrowcsv.WithNullWriter("N/A"))
	if err := writer.Write(rec); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return writer.Error()
}
