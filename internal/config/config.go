// Package config loads energyreport settings.
//
// Precedence, highest first: command-line flags, ENERGYREPORT_* environment
// variables, the YAML config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ENERGYREPORT"

type Config struct {
	Data    DataConfig    `mapstructure:"data"    yaml:"data"`
	Report  ReportConfig  `mapstructure:"report"  yaml:"report"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

type DataConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type ReportConfig struct {
	Dir            string `mapstructure:"dir"             yaml:"dir"`
	OverwriteName  string `mapstructure:"overwrite_name"  yaml:"overwrite_name"`
	Prefix         string `mapstructure:"prefix"          yaml:"prefix"`
	Format         string `mapstructure:"format"          yaml:"format"` // "txt", "xlsx" or "pdf"
	Year           int    `mapstructure:"year"            yaml:"year"`   // 0 = year of the earliest reading
	Locale         string `mapstructure:"locale"          yaml:"locale"`
	LocaleFile     string `mapstructure:"locale_file"     yaml:"locale_file"`
	DailyBreakdown bool   `mapstructure:"daily_breakdown" yaml:"daily_breakdown"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

type MetricsConfig struct {
	// Textfile is where metrics are dumped on exit for node_exporter's
	// textfile collector. Empty disables the dump.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"data":         "data.path",
	"report-dir":   "report.dir",
	"format":       "report.format",
	"year":         "report.year",
	"locale":       "report.locale",
	"locale-file":  "report.locale_file",
	"breakdown":    "report.daily_breakdown",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"metrics-file": "metrics.textfile",
}

// Load reads configuration. An empty path searches ./config and
// $HOME/.energyreport for config.yaml and tolerates its absence; an explicit
// path must exist. Flags present in fs override every other source.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(filepath.Join(homeDir(), ".energyreport"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "2025.csv")

	v.SetDefault("report.dir", ".")
	v.SetDefault("report.overwrite_name", "report")
	v.SetDefault("report.prefix", "report_")
	v.SetDefault("report.format", "txt")
	v.SetDefault("report.year", 0)
	v.SetDefault("report.locale", "en")
	v.SetDefault("report.locale_file", "")
	v.SetDefault("report.daily_breakdown", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.textfile", "")
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Data.Path) == "" {
		errs = append(errs, errors.New("data.path must not be empty"))
	}
	if !slices.Contains([]string{"txt", "xlsx", "pdf"}, strings.ToLower(c.Report.Format)) {
		errs = append(errs, fmt.Errorf("report.format %q: want txt, xlsx or pdf", c.Report.Format))
	}
	if c.Report.Year < 0 || c.Report.Year > 9999 {
		errs = append(errs, fmt.Errorf("report.year %d: want 0 or 1-9999", c.Report.Year))
	}
	for key, name := range map[string]string{
		"report.overwrite_name": c.Report.OverwriteName,
		"report.prefix":         c.Report.Prefix,
	} {
		if name == "" || strings.ContainsAny(name, `/\`) {
			errs = append(errs, fmt.Errorf("%s %q: want a plain file name", key, name))
		}
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Logging.Level))
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Logging.Format)) {
		errs = append(errs, fmt.Errorf("logging.format %q: want text or json", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
