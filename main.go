package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/rickar/cal/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"holiday-yaml-sync/internal/batch"
	"holiday-yaml-sync/internal/holidays"
)

const defaultConfigPath = "config/holidays.yaml"

type Config struct {
	HolidaysDir     string   `yaml:"holidays_dir"`
	IndexFile       string   `yaml:"index_file"`
	Year            int      `yaml:"year"`
	LogLevel        string   `yaml:"log_level"`
	MetricsFile     string   `yaml:"metrics_file"`
	SkipObservances []string `yaml:"skip_observances"`
}

func defaultConfig() Config {
	return Config{
		HolidaysDir:     filepath.Join("src", "holidays"),
		LogLevel:        "info",
		SkipObservances: []string{"other"},
	}
}

// loadConfig reads path over the defaults; a missing file is not an error.
// Environment variables override the file.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("HOLIDAYS_DIR"); v != "" {
		c.HolidaysDir = v
	}
	if v := os.Getenv("HOLIDAYS_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HOLIDAYS_YEAR: %w", err)
		}
		c.Year = year
	}
	if v := os.Getenv("HOLIDAYS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HOLIDAYS_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		dir         string
		year        int
		dryRun      bool
		metricsFile string
		logLevel    string
	)
	cmd := &cobra.Command{
		Use:          "holiday-yaml-sync [country...]",
		Short:        "Regenerate the public holiday lists of the country YAML files",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("dir") {
				cfg.HolidaysDir = dir
			}
			if flags.Changed("year") {
				cfg.Year = year
			}
			if flags.Changed("metrics-file") {
				cfg.MetricsFile = metricsFile
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			return run(cfg, args, dryRun)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "config file")
	cmd.Flags().StringVar(&dir, "dir", "", "directory of the country files")
	cmd.Flags().IntVar(&year, "year", 0, "holiday year (default current year)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

func run(cfg Config, countries []string, dryRun bool) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "holiday-sync",
		ReportTimestamp: true,
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	var skip []cal.ObservanceType
	for _, name := range cfg.SkipObservances {
		t, err := holidays.ParseObservance(name)
		if err != nil {
			return err
		}
		skip = append(skip, t)
	}

	if cfg.Year == 0 {
		cfg.Year = time.Now().Year()
	}
	if cfg.IndexFile == "" {
		cfg.IndexFile = filepath.Join(cfg.HolidaysDir, "index.js")
	}
	only := make([]string, 0, len(countries))
	for _, c := range countries {
		only = append(only, strings.ToUpper(c))
	}

	metrics := batch.NewMetrics()
	d := &batch.Driver{
		Oracle:    holidays.NewCalOracle(skip...),
		Dir:       cfg.HolidaysDir,
		IndexFile: cfg.IndexFile,
		Year:      cfg.Year,
		DryRun:    dryRun,
		Only:      only,
		Logger:    logger,
		Metrics:   metrics,
	}
	sum, err := d.Run()
	if err != nil {
		return err
	}
	logger.Info("done", "year", cfg.Year, "updated", sum.Updated, "created", sum.Created,
		"unchanged", sum.Unchanged, "skipped", sum.Skipped, "failed", sum.Failed)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("write metrics failed", "file", cfg.MetricsFile, "err", err)
		}
	}
	return nil
}

func main() {
	_ = godotenv.Load(".env")
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
