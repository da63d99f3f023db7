package pptxjson

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
)

// Open decodes a .pptx file from disk.
// This is a convenience wrapper around ReadFrom.
func Open(path string, opts ...Option) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return ReadFrom(f, info.Size(), opts...)
}

// ReadFrom decodes a .pptx package from an io.ReaderAt with the given size.
func ReadFrom(r io.ReaderAt, size int64, opts ...Option) (*Presentation, error) {
	return ReadFromContext(context.Background(), r, size, opts...)
}

// ReadFromContext is ReadFrom with a context that cancels slide decoding.
func ReadFromContext(ctx context.Context, r io.ReaderAt, size int64, opts ...Option) (*Presentation, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > maxZipTotalSize {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	return Decode(ctx, zr, opts...)
}
