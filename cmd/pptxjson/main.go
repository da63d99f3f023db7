// Command pptxjson decodes a .pptx file and prints its slides as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	pptxjson "github.com/VantageDataChat/PPTXJSON"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "pptxjson: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, rest, err := loadConfig(args)
	if err != nil {
		return err
	}
	if cfg.Version {
		fmt.Println("pptxjson", pptxjson.Version)
		return nil
	}
	if len(rest) != 1 {
		return errors.New("usage: pptxjson [flags] file.pptx")
	}
	src := rest[0]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := convert(ctx, cfg, src, logger); err != nil {
		if !cfg.Watch {
			return err
		}
		logger.Error("decode failed", "file", src, "err", err)
	}
	if cfg.Watch {
		return watch(ctx, cfg, src, logger)
	}
	return nil
}

func options(cfg *Config, logger *slog.Logger) []pptxjson.Option {
	opts := []pptxjson.Option{
		pptxjson.WithLogger(logger),
		pptxjson.WithEmbedMedia(cfg.EmbedMedia),
		pptxjson.WithHeaderFooterFilter(cfg.HeaderFooter),
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, pptxjson.WithConcurrency(cfg.Concurrency))
	}
	if cfg.MaxPartSize > 0 {
		opts = append(opts, pptxjson.WithMaxPartSize(cfg.MaxPartSize))
	}
	return opts
}

// convert decodes src once and writes the JSON output.
func convert(ctx context.Context, cfg *Config, src string, logger *slog.Logger) error {
	start := time.Now()
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	pres, err := pptxjson.ReadFromContext(ctx, f, info.Size(), options(cfg, logger)...)
	if err != nil {
		return err
	}
	for _, e := range pres.Errors() {
		logger.Warn("element dropped", "err", e)
	}
	if cfg.Validate {
		if err := pres.Validate(); err != nil {
			logger.Warn("validation", "file", src, "err", err)
		}
	}
	if cfg.Flatten {
		for _, s := range pres.Slides {
			s.Elements = pptxjson.Flatten(s.Elements)
			s.LayoutElements = pptxjson.Flatten(s.LayoutElements)
		}
	}

	if err := writeJSON(cfg.Out, pres); err != nil {
		return err
	}
	logger.Info("decoded", "file", src, "slides", len(pres.Slides), "elapsed", time.Since(start))
	return nil
}

func writeJSON(out string, v any) error {
	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// watch re-decodes src whenever it is written or replaced. Editors often
// save through a rename, so the directory is watched rather than the file.
func watch(ctx context.Context, cfg *Config, src string, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watching", "file", abs)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cfg.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := convert(ctx, cfg, abs, logger); err != nil {
				logger.Error("decode failed", "file", abs, "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-ctx.Done():
			return nil
		}
	}
}
