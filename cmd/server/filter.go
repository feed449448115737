package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"vgsales/internal/engine"
	"vgsales/internal/export"
	"vgsales/internal/termtable"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter the dataset and print or export the matching rows",
	Long: `Filter the dataset by platform, year, genre and publisher. Each flag may be
repeated; values within a flag are OR-combined and flags are AND-combined.
Passing "Select All" or omitting a flag leaves that field unrestricted.

Examples:
  vgsales filter --platform Wii --genre Sports
  vgsales filter --year 2008 --year 2009 --export out.parquet`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func init() {
	for _, f := range engine.Fields {
		filterCmd.Flags().StringArray(f.Param(), nil, "Accepted "+f.String()+" value (repeatable)")
	}
	filterCmd.Flags().Int("limit", 20, "Rows to print")
	filterCmd.Flags().String("export", "", "Write all matching rows to this file (.parquet, .csv or .json)")
}

func runFilter(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Debug)

	sel := engine.Selections{}
	for _, f := range engine.Fields {
		values, err := cmd.Flags().GetStringArray(f.Param())
		if err != nil {
			return err
		}
		if len(values) > 0 {
			sel[f] = values
		}
	}

	full, err := engine.NewFileCache(cfg.DataFile).Load()
	if err != nil {
		return err
	}
	ds := engine.Filter(full, sel)
	logger.Debugf("filter kept %d of %d rows", ds.Len(), full.Len())

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := exportFile(path, ds); err != nil {
			return err
		}
		logger.Infof("wrote %d rows to %s", ds.Len(), path)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", limit)
	}
	table := termtable.New("Rank", "Name", "Platform", "Year", "Genre", "Publisher", "Global_Sales").AlignRight(0, 3, 6)
	for _, g := range ds.Records(0, limit) {
		year := "N/A"
		if g.Year != nil {
			year = strconv.Itoa(*g.Year)
		}
		table.Append(strconv.Itoa(g.Rank), g.Name, g.Platform, year, g.Genre, g.Publisher,
			strconv.FormatFloat(g.GlobalSales, 'f', 2, 64))
	}
	out := cmd.OutOrStdout()
	if err := table.Render(out); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\n%d shown, %d of %d rows match\n", table.Len(), ds.Len(), full.Len())
	return err
}

func exportFile(path string, ds *engine.Dataset) (err error) {
	format, err := export.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if format == export.FormatJSON {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(ds.Records(0, ds.Len()))
	}
	return export.Write(f, ds, format)
}
