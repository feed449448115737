package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgsales/internal/engine"
)

const sampleCSV = `Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales
1,Wii Sports,Wii,2006,Sports,Nintendo,41.49,29.02,3.77,8.46,82.74
8,Madden NFL 2004,PS2,N/A,Sports,Electronic Arts,0.53,0.36,0,0.12,1.02
9,"Warhammer 40,000: Dawn of War",PC,2004,Strategy,THQ,0,0.51,0,0.1,0.61
`

func sample(t *testing.T) *engine.Dataset {
	t.Helper()
	store, err := engine.ReadColumnar(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return engine.NewDataset(store)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{"Parquet", FormatParquet, false},
		{" json ", FormatJSON, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	f, err := FormatFromPath("/tmp/out.parquet")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)
	assert.Equal(t, "application/vnd.apache.parquet", f.ContentType())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales", lines[0])
	assert.Equal(t, "1,Wii Sports,Wii,2006,Sports,Nintendo,41.49,29.02,3.77,8.46,82.74", lines[1])
	assert.Equal(t, "8,Madden NFL 2004,PS2,N/A,Sports,Electronic Arts,0.53,0.36,0,0.12,1.02", lines[2])
	assert.Equal(t, `9,"Warhammer 40,000: Dawn of War",PC,2004,Strategy,THQ,0,0.51,0,0.1,0.61`, lines[3])
}

func TestWriteCSVFilteredView(t *testing.T) {
	ds := engine.Filter(sample(t), engine.Selections{engine.FieldGenre: {"Strategy"}})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ds, FormatCSV))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "9,"))
}

func TestWriteParquetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(t), FormatParquet))
	assert.Equal(t, "PAR1", buf.String()[:4])

	table, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(buf.Bytes()),
		parquet.NewReaderProperties(memory.DefaultAllocator), pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	require.NoError(t, err)
	defer table.Release()

	assert.Equal(t, int64(3), table.NumRows())
	assert.Equal(t, int64(len(Schema.Fields())), table.NumCols())
	assert.Equal(t, engine.ColYear, table.Schema().Field(3).Name)
	assert.Equal(t, 1, table.Column(3).NullN(), "missing year is stored as null")
}

func TestWriteParquetEmptyView(t *testing.T) {
	ds := engine.Filter(sample(t), engine.Selections{engine.FieldPlatform: {"Dreamcast"}})

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, ds))
	assert.NotZero(t, buf.Len())
}

func TestWriteUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sample(t), FormatJSON)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
