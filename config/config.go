// Package config loads editor settings from a YAML file, the environment and flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mapedit/geometry"
)

// Click modes select how chart clicks become data points.
const (
	ClickManual = "manual" // map the raw click through the chart geometry
	ClickNative = "native" // use the data coordinates the chart reports for the clicked cell
)

// Config holds every runtime setting.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	MapID          string        `yaml:"map_id"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFile        string        `yaml:"log_file"`
	MetricsAddr    string        `yaml:"metrics_addr"`
	ClickMode      string        `yaml:"click_mode"`
	Chart          Chart         `yaml:"chart"`
}

// Chart configures the terminal chart widget. Margins are in terminal cells.
type Chart struct {
	Margins geometry.Margins `yaml:"margins"`
	XRange  []float64        `yaml:"x_range"`
	YRange  []float64        `yaml:"y_range"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:        "http://127.0.0.1:5000",
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
		LogFile:        "mapedit.log",
		ClickMode:      ClickManual,
		Chart: Chart{
			Margins: geometry.Margins{Left: 8, Right: 1, Top: 1, Bottom: 2},
			XRange:  []float64{0, 100},
			YRange:  []float64{0, 100},
		},
	}
}

// Load reads path (optional) over the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	c.BaseURL = envOr("MAPEDIT_BASE_URL", c.BaseURL)
	c.MapID = envOr("MAPEDIT_MAP_ID", c.MapID)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
	c.LogFile = envOr("MAPEDIT_LOG_FILE", c.LogFile)
	c.MetricsAddr = envOr("MAPEDIT_METRICS_ADDR", c.MetricsAddr)
	c.ClickMode = envOr("MAPEDIT_CLICK_MODE", c.ClickMode)
	if v := os.Getenv("MAPEDIT_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
}

// Validate checks the settings the editor cannot run without.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("base_url is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL))
	}
	if strings.TrimSpace(c.MapID) == "" {
		errs = append(errs, errors.New("map_id is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.ClickMode != ClickManual && c.ClickMode != ClickNative {
		errs = append(errs, fmt.Errorf("click_mode must be %q or %q, got %q", ClickManual, ClickNative, c.ClickMode))
	}
	if _, err := toRange("chart.x_range", c.Chart.XRange); err != nil {
		errs = append(errs, err)
	}
	if _, err := toRange("chart.y_range", c.Chart.YRange); err != nil {
		errs = append(errs, err)
	}
	m := c.Chart.Margins
	if m.Left < 0 || m.Right < 0 || m.Top < 0 || m.Bottom < 0 {
		errs = append(errs, errors.New("chart.margins must not be negative"))
	}

	return errors.Join(errs...)
}

// XRange returns the configured x axis range.
func (c Config) XRange() geometry.Range {
	r, _ := toRange("chart.x_range", c.Chart.XRange)
	return r
}

// YRange returns the configured y axis range.
func (c Config) YRange() geometry.Range {
	r, _ := toRange("chart.y_range", c.Chart.YRange)
	return r
}

func toRange(name string, v []float64) (geometry.Range, error) {
	if len(v) != 2 {
		return geometry.Range{}, fmt.Errorf("%s needs exactly 2 values, got %d", name, len(v))
	}
	r := geometry.Range{Min: v[0], Max: v[1]}
	if !r.Valid() {
		return geometry.Range{}, fmt.Errorf("%s must not be empty", name)
	}
	return r, nil
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
