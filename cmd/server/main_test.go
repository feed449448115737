package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgsales/internal/config"
	"vgsales/internal/engine"
	"vgsales/internal/metrics"
	"vgsales/internal/models"
)

const sampleCSV = `Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales
1,Wii Sports,Wii,2006,Sports,Nintendo,41.49,29.02,3.77,8.46,82.74
2,Super Mario Bros.,NES,1985,Platform,Nintendo,29.08,3.58,6.81,0.77,40.24
3,Mario Kart Wii,Wii,2008,Racing,Nintendo,15.85,12.88,3.79,3.31,35.82
4,Wii Sports Resort,Wii,2009,Sports,Nintendo,15.75,11.01,3.28,2.96,33
8,Madden NFL 2004,PS2,N/A,Sports,Electronic Arts,0.53,0.36,0,0.12,1.02
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vgsales.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))
	return path
}

// resetFilterFlags clears flag values left behind by an earlier Execute.
func resetFilterFlags(t *testing.T) {
	t.Helper()
	for _, f := range engine.Fields {
		flag := filterCmd.Flags().Lookup(f.Param())
		require.NotNil(t, flag)
		sv, ok := flag.Value.(interface{ Replace([]string) error })
		require.True(t, ok)
		require.NoError(t, sv.Replace(nil))
	}
	require.NoError(t, filterCmd.Flags().Set("limit", "20"))
	require.NoError(t, filterCmd.Flags().Set("export", ""))
}

func TestFilterCommand(t *testing.T) {
	path := writeSample(t)
	resetFilterFlags(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"filter", "--data", path, "--platform", "Wii", "--genre", "Sports"})
	require.NoError(t, rootCmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Wii Sports Resort")
	assert.NotContains(t, text, "Mario Kart Wii")
	assert.Contains(t, text, "2 shown, 2 of 5 rows match")
}

func TestFilterCommandLimit(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name    string
		limit   string
		want    string
		wantErr bool
	}{
		{name: "smaller than the match count", limit: "1", want: "1 shown, 3 of 5 rows match"},
		{name: "zero prints no rows", limit: "0", want: "0 shown, 3 of 5 rows match"},
		{name: "larger than the dataset", limit: "9223372036854775807", want: "3 shown, 3 of 5 rows match"},
		{name: "negative", limit: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFilterFlags(t)
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs([]string{"filter", "--data", path, "--platform", "Wii", "--limit", tt.limit})
			err := rootCmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestExportFile(t *testing.T) {
	store, err := engine.LoadColumnar(writeSample(t))
	require.NoError(t, err)
	ds := engine.Filter(engine.NewDataset(store), engine.Selections{engine.FieldPublisher: {"Electronic Arts"}})

	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, exportFile(jsonPath, ds))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var games []models.Game
	require.NoError(t, json.Unmarshal(data, &games))
	require.Len(t, games, 1)
	assert.Nil(t, games[0].Year)

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, exportFile(csvPath, ds))
	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Rank,Name,"))

	assert.Error(t, exportFile(filepath.Join(dir, "out.xlsx"), ds))
}

func TestNewServer(t *testing.T) {
	cfg := config.Default()
	cfg.DataFile = writeSample(t)
	cache := engine.NewFileCache(cfg.DataFile)
	_, err := cache.Load()
	require.NoError(t, err)

	e := newServer(cfg, cache, metrics.New())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games?platform=Wii", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var page models.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
}
