// Package config defines the settings shared by the epgm tools: default
// labels, logging, identifier generation and stream encoding.
//
// Files are YAML (.yaml, .yml) or TOML (.toml). Environment variables in the
// form $VAR or ${VAR} are expanded before decoding, and unknown keys are
// rejected so typos do not go unnoticed.
package config

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/lumberjack"
	"gopkg.in/yaml.v3"

	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/stream"
)

// Config is the top-level structure of a configuration file.
type Config struct {
	Labels     epgm.Labels      `yaml:"labels" toml:"labels"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Identifier IdentifierConfig `yaml:"identifier" toml:"identifier"`
	Stream     StreamConfig     `yaml:"stream" toml:"stream"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text, json
	// File switches output to a rotating log file.
	File       string `yaml:"file" toml:"file"`
	MaxSize    int    `yaml:"max_size" toml:"max_size"` // megabytes
	MaxAge     int    `yaml:"max_age" toml:"max_age"`   // days
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

// IdentifierConfig controls identifier generation.
type IdentifierConfig struct {
	// Discriminator is a fixed 5-byte generator discriminator in hex
	// (10 characters). Empty means a random one per process.
	Discriminator string `yaml:"discriminator" toml:"discriminator"`
}

// StreamConfig controls frame encoding.
type StreamConfig struct {
	Compression string `yaml:"compression" toml:"compression"` // none, snappy
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Labels: epgm.DefaultLabels(),
		Log: LogConfig{
			Level:   "info",
			Format:  "text",
			MaxSize: 100,
			MaxAge:  28,
		},
		Stream: StreamConfig{Compression: string(stream.CompressionNone)},
	}
}

// Load reads the configuration file at path on top of Default. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(strings.NewReader(expanded))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(expanded, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("TOML syntax error in '%s': %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("unknown key %q in '%s'", undecoded[0].String(), path)
		}
	default:
		return cfg, fmt.Errorf("unsupported configuration format %q for '%s'", ext, path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if _, err := c.Identifier.discriminator(); err != nil {
		return err
	}
	_, err := stream.ParseCompression(c.Stream.Compression)
	return err
}

// Compression returns the configured stream compression.
func (c Config) Compression() (stream.Compression, error) {
	return stream.ParseCompression(c.Stream.Compression)
}

// Generator returns an identifier generator honoring the configured
// discriminator.
func (c IdentifierConfig) Generator() (*id.Generator, error) {
	d, err := c.discriminator()
	if err != nil {
		return nil, err
	}
	if d == nil {
		return id.NewGenerator(), nil
	}
	return id.NewGeneratorWith(*d, 0, nil), nil
}

func (c IdentifierConfig) discriminator() (*[id.DiscriminatorSize]byte, error) {
	if c.Discriminator == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(c.Discriminator)
	if err != nil || len(b) != id.DiscriminatorSize {
		return nil, fmt.Errorf("identifier discriminator %q: want %d hex-encoded bytes", c.Discriminator, id.DiscriminatorSize)
	}
	var d [id.DiscriminatorSize]byte
	copy(d[:], b)
	return &d, nil
}

// Factories builds epgm factories from the label and identifier settings.
func (c Config) Factories() (epgm.Factories, error) {
	gen, err := c.Identifier.Generator()
	if err != nil {
		return epgm.Factories{}, err
	}
	return epgm.NewFactories(c.Labels, gen), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// NewLogger builds a logger from c. Output goes to w unless a log file is
// configured, in which case it goes to a rotating file. The returned closer
// releases that file.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer = nopCloser{}
	if c.File != "" {
		l := &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSize,
			MaxAge:     c.MaxAge,
			MaxBackups: c.MaxBackups,
		}
		w, closer = l, l
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(c.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
