package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the command configuration. Values come from flags, PPTXJSON_*
// environment variables (a .env file is loaded when present) and an
// optional pptxjson.yaml, in that order of precedence.
type Config struct {
	Out          string        `mapstructure:"out"`
	Concurrency  int           `mapstructure:"concurrency"`
	EmbedMedia   bool          `mapstructure:"embed_media"`
	HeaderFooter bool          `mapstructure:"filter_header_footer"`
	MaxPartSize  int64         `mapstructure:"max_part_size"`
	LogLevel     string        `mapstructure:"log_level"`
	Watch        bool          `mapstructure:"watch"`
	Debounce     time.Duration `mapstructure:"debounce"`
	Validate     bool          `mapstructure:"validate"`
	Flatten      bool          `mapstructure:"flatten"`
	Version      bool          `mapstructure:"version"`
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pptxjson", pflag.ContinueOnError)
	fs.StringP("out", "o", "", "write JSON to this file instead of stdout")
	fs.IntP("concurrency", "j", 0, "slides decoded in parallel (0 = GOMAXPROCS)")
	fs.Bool("embed-media", true, "inline pictures and media as data URIs")
	fs.Bool("filter-header-footer", true, "drop header, footer, date and slide number elements")
	fs.Int64("max-part-size", 50<<20, "largest accepted part in bytes")
	fs.String("log-level", "warn", "log level: debug, info, warn, error")
	fs.BoolP("watch", "w", false, "re-decode whenever the file changes")
	fs.Duration("debounce", 500*time.Millisecond, "delay before re-decoding a changed file")
	fs.Bool("validate", false, "report structural problems of the decoded output")
	fs.Bool("flatten", false, "emit leaf elements with absolute coordinates")
	fs.BoolP("version", "v", false, "print the version and exit")
	fs.String("config", "", "configuration file (default ./pptxjson.yaml)")
	return fs
}

// loadConfig parses args and merges them with the environment and the
// configuration file. It returns the remaining positional arguments.
func loadConfig(args []string) (*Config, []string, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using the process environment")
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("PPTXJSON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		_ = v.BindPFlag(key, f)
	})

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pptxjson")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && v.ConfigFileUsed() != "" {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, fs.Args(), nil
}

// level maps the configured log level to a slog level.
func (c *Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}
