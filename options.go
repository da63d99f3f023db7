package pptxjson

import (
	"log/slog"
	"runtime"
)

// Options controls decoding. Use the With* functions to build one.
type Options struct {
	// Concurrency bounds the number of slides decoded in parallel.
	Concurrency int
	Logger      *slog.Logger
	// EmbedMedia inlines pictures and media as data URIs. When false, Src
	// holds the package path of the part.
	EmbedMedia bool
	// FilterHeaderFooter drops date, footer, header and slide number
	// placeholders and footer-like number or date text.
	FilterHeaderFooter bool
	// MaxPartSize limits the uncompressed size of any single part.
	MaxPartSize int64
}

// Option configures decoding.
type Option func(*Options)

func newOptions(opts []Option) *Options {
	o := &Options{
		Concurrency:        runtime.GOMAXPROCS(0),
		Logger:             slog.New(slog.DiscardHandler),
		EmbedMedia:         true,
		FilterHeaderFooter: true,
		MaxPartSize:        maxZipEntrySize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithConcurrency sets how many slides are decoded at once.
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// WithLogger sets the logger for debug traces of the decode.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithEmbedMedia toggles data URI embedding of pictures and media.
func WithEmbedMedia(embed bool) Option {
	return func(o *Options) { o.EmbedMedia = embed }
}

// WithHeaderFooterFilter toggles removal of header and footer elements.
func WithHeaderFooterFilter(filter bool) Option {
	return func(o *Options) { o.FilterHeaderFooter = filter }
}

// WithMaxPartSize sets the per-part size limit in bytes.
func WithMaxPartSize(n int64) Option {
	return func(o *Options) { o.MaxPartSize = n }
}
