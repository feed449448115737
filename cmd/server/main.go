package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vgsales/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "vgsales",
	Short: "Video game sales explorer",
	Long: `Explore the video game sales dataset: filter by platform, year, genre and
publisher, and serve the charts over the filtered subset through an HTTP API.

Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vgsales %s\n", version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to configuration file (YAML format)")
	flags.String("data", "", "Path to the sales CSV (default vgsales.csv)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("address", "", "Address to listen on (default :8080)")

	bind := map[string]string{
		"config":   "config",
		"dataFile": "data",
		"debug":    "debug",
		"address":  "address",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.Fatalf("Failed to bind %s flag: %v", flag, err)
		}
	}

	viper.SetEnvPrefix("VGSALES")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, filterCmd, versionCmd)
}

// loadConfig layers flags and VGSALES_* variables over the config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return cfg, err
	}
	if viper.IsSet("address") {
		cfg.Address = viper.GetString("address")
	}
	if viper.IsSet("dataFile") {
		cfg.DataFile = viper.GetString("dataFile")
	}
	if viper.IsSet("debug") {
		cfg.Debug = viper.GetBool("debug")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(debug bool) *log.Logger {
	logger := log.New("vgsales")
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")
	if debug {
		logger.SetLevel(log.DEBUG)
	} else {
		logger.SetLevel(log.INFO)
	}
	return logger
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
