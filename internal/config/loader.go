// Package config loads printd settings from a file, the environment and
// built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Default values.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr" validate:"required"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" validate:"omitempty,oneof=json console"`

	Queue   QueueConfig   `json:"queue" yaml:"queue" toml:"queue"`
	Printer PrinterConfig `json:"printer" yaml:"printer" toml:"printer"`
	HTTP    HTTPConfig    `json:"http" yaml:"http" toml:"http"`
}

// QueueConfig tunes the print queue.
type QueueConfig struct {
	// CooldownMS is the gap between jobs; negative disables it.
	CooldownMS  int  `json:"cooldown_ms" yaml:"cooldown_ms" toml:"cooldown_ms"`
	StartPaused bool `json:"start_paused" yaml:"start_paused" toml:"start_paused"`
}

// PrinterConfig selects the output driver and the raster it is fed.
type PrinterConfig struct {
	Driver          string  `json:"driver" yaml:"driver" toml:"driver" validate:"oneof=file escpos tspl simulated"`
	Address         string  `json:"address" yaml:"address" toml:"address" validate:"required_if=Driver escpos,required_if=Driver tspl"`
	TimeoutMS       int     `json:"timeout_ms" yaml:"timeout_ms" toml:"timeout_ms" validate:"gte=0"`
	SpoolDir        string  `json:"spool_dir" yaml:"spool_dir" toml:"spool_dir"`
	// LockFile, when set, is held for the process lifetime so a second
	// printd cannot drive the same printer.
	LockFile        string  `json:"lock_file" yaml:"lock_file" toml:"lock_file"`
	SimulateDelayMS int     `json:"simulate_delay_ms" yaml:"simulate_delay_ms" toml:"simulate_delay_ms" validate:"gte=0"`
	Width           int     `json:"width" yaml:"width" toml:"width" validate:"gt=0,lte=4096"`
	MaxHeight       int     `json:"max_height" yaml:"max_height" toml:"max_height" validate:"gt=0,lte=65535"`
	Threshold       int     `json:"threshold" yaml:"threshold" toml:"threshold" validate:"gte=1,lte=255"`
	// MaxInputPixels rejects uploads whose header declares more pixels.
	MaxInputPixels  int     `json:"max_input_pixels" yaml:"max_input_pixels" toml:"max_input_pixels" validate:"gt=0"`
	LabelWidthMM    float64 `json:"label_width_mm" yaml:"label_width_mm" toml:"label_width_mm" validate:"gte=0"`
	LabelHeightMM   float64 `json:"label_height_mm" yaml:"label_height_mm" toml:"label_height_mm" validate:"gte=0"`
	GapMM           float64 `json:"gap_mm" yaml:"gap_mm" toml:"gap_mm" validate:"gte=0"`
	DPI             int     `json:"dpi" yaml:"dpi" toml:"dpi" validate:"gte=0"`
}

// HTTPConfig configures the API boundary.
type HTTPConfig struct {
	MaxUploadBytes int64      `json:"max_upload_bytes" yaml:"max_upload_bytes" toml:"max_upload_bytes" validate:"gt=0"`
	WaitTimeoutMS  int        `json:"wait_timeout_ms" yaml:"wait_timeout_ms" toml:"wait_timeout_ms" validate:"gte=0"`
	CORS           CORSConfig `json:"cors" yaml:"cors" toml:"cors"`
}

type CORSConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		Addr:      ":3000",
		LogLevel:  "info",
		LogFormat: "json",
		Queue:     QueueConfig{CooldownMS: 50},
		Printer: PrinterConfig{
			Driver:         "file",
			TimeoutMS:      10000,
			SpoolDir:       "temp",
			Width:          384,
			MaxHeight:      1024,
			Threshold:      128,
			MaxInputPixels: 24_000_000,
		},
		HTTP: HTTPConfig{
			MaxUploadBytes: 10 << 20,
			WaitTimeoutMS:  60000,
			CORS: CORSConfig{
				Origins: []string{"*"},
				Methods: []string{"GET", "POST", "OPTIONS"},
				Headers: []string{"Content-Type"},
			},
		},
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
// Keys absent from the file keep their Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PRINTD_* environment variables. lookup is
// normally os.LookupEnv. Malformed numbers are reported, not ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("PRINTD_ADDR", &c.Addr)
	str("PRINTD_LOG_LEVEL", &c.LogLevel)
	str("PRINTD_LOG_FORMAT", &c.LogFormat)
	num("PRINTD_QUEUE_COOLDOWN_MS", &c.Queue.CooldownMS)
	flag("PRINTD_QUEUE_START_PAUSED", &c.Queue.StartPaused)
	str("PRINTD_PRINTER_DRIVER", &c.Printer.Driver)
	str("PRINTD_PRINTER_ADDRESS", &c.Printer.Address)
	num("PRINTD_PRINTER_TIMEOUT_MS", &c.Printer.TimeoutMS)
	str("PRINTD_PRINTER_SPOOL_DIR", &c.Printer.SpoolDir)
	str("PRINTD_PRINTER_LOCK_FILE", &c.Printer.LockFile)
	num("PRINTD_PRINTER_SIMULATE_DELAY_MS", &c.Printer.SimulateDelayMS)
	num("PRINTD_PRINTER_MAX_INPUT_PIXELS", &c.Printer.MaxInputPixels)
	num("PRINTD_HTTP_WAIT_TIMEOUT_MS", &c.HTTP.WaitTimeoutMS)
	flag("PRINTD_CORS_ENABLED", &c.HTTP.CORS.Enabled)
	if v, ok := lookup("PRINTD_HTTP_MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("PRINTD_HTTP_MAX_UPLOAD_BYTES: %w", err))
		} else {
			c.HTTP.MaxUploadBytes = n
		}
	}
	if v, ok := lookup("PRINTD_CORS_ORIGINS"); ok && v != "" {
		c.HTTP.CORS.Origins = SplitCSV(v)
	}
	return errors.Join(errs...)
}

var validate = validator.New()

// Validate checks field ranges and cross-field requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Cooldown converts Queue.CooldownMS to the queue's convention: negative
// disables, zero selects the queue default.
func (q QueueConfig) Cooldown() time.Duration {
	if q.CooldownMS < 0 {
		return -1
	}
	return time.Duration(q.CooldownMS) * time.Millisecond
}

func (p PrinterConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

func (p PrinterConfig) SimulateDelay() time.Duration {
	return time.Duration(p.SimulateDelayMS) * time.Millisecond
}

func (h HTTPConfig) WaitTimeout() time.Duration {
	return time.Duration(h.WaitTimeoutMS) * time.Millisecond
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping
// empty items.
func SplitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
