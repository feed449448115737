// Package config provides configuration loading for the sales explorer.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration structure
type Config struct {
	// Address is the listen address of the HTTP server
	Address string `yaml:"address"`

	// DataFile is the path of the sales CSV
	DataFile string `yaml:"dataFile"`

	// Debug lowers the log level to debug
	Debug bool `yaml:"debug"`

	// TopN is the number of slices in the market share pies
	TopN int `yaml:"topN"`

	// HistogramBins fixes the histogram bin count; 0 picks it automatically
	HistogramBins int `yaml:"histogramBins"`

	// PageLimit is the default page size of /api/games
	PageLimit int `yaml:"pageLimit"`

	Chart ChartConfig `yaml:"chart"`

	// ShutdownTimeout bounds graceful shutdown, e.g. "30s"
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// ChartConfig defines the rendered image size
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Address:         ":8080",
		DataFile:        "vgsales.csv",
		TopN:            10,
		PageLimit:       100,
		Chart:           ChartConfig{Width: 1024, Height: 600},
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("address is required"))
	}
	if c.DataFile == "" {
		errs = append(errs, errors.New("dataFile is required"))
	}
	if c.TopN <= 0 {
		errs = append(errs, fmt.Errorf("topN must be positive, got %d", c.TopN))
	}
	if c.HistogramBins < 0 {
		errs = append(errs, fmt.Errorf("histogramBins must not be negative, got %d", c.HistogramBins))
	}
	if c.PageLimit <= 0 {
		errs = append(errs, fmt.Errorf("pageLimit must be positive, got %d", c.PageLimit))
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		errs = append(errs, fmt.Errorf("chart size must be positive, got %dx%d", c.Chart.Width, c.Chart.Height))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdownTimeout must not be negative, got %s", c.ShutdownTimeout))
	}
	return errors.Join(errs...)
}
