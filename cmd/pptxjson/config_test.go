package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFlags(t *testing.T) {
	cfg, args, err := loadConfig([]string{"-j", "3", "--flatten", "--embed-media=false", "deck.pptx"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Concurrency != 3 || !cfg.Flatten || cfg.EmbedMedia {
		t.Errorf("config = %+v", cfg)
	}
	if !cfg.HeaderFooter || cfg.MaxPartSize != 50<<20 || cfg.Debounce != 500*time.Millisecond {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(args) != 1 || args[0] != "deck.pptx" {
		t.Errorf("args = %v", args)
	}
}

func TestLoadConfigEnvironmentAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pptxjson.yaml")
	if err := os.WriteFile(path, []byte("concurrency: 5\nvalidate: true\nlog_level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PPTXJSON_LOG_LEVEL", "debug")

	cfg, _, err := loadConfig([]string{"--config", path})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Concurrency != 5 || !cfg.Validate {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.level() != slog.LevelDebug {
		t.Errorf("environment should win over the file, log level = %q", cfg.LogLevel)
	}

	if _, _, err := loadConfig([]string{"--config", filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("an explicit missing config file should fail")
	}
}

func TestConfigLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"info": slog.LevelInfo, "ERROR": slog.LevelError, "bogus": slog.LevelWarn} {
		if got := (&Config{LogLevel: in}).level(); got != want {
			t.Errorf("level(%q) = %v, want %v", in, got, want)
		}
	}
}
