// Package upload holds images an admin has selected in the add-work form but
// not yet submitted. Every staged image belongs to the session that staged it.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNotFound is returned for keys that were never staged, were removed, or
// belong to another owner.
var ErrNotFound = errors.New("staged upload not found")

// Store keeps staged images keyed by owner and key.
type Store interface {
	Save(ctx context.Context, owner, mimeType string, r io.Reader) (key string, err error)
	Get(ctx context.Context, owner, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, owner, key string) error
}

// Sweeper removes staged images last written before a cutoff.
type Sweeper interface {
	Sweep(ctx context.Context, before time.Time) (int, error)
}

// RunSweeper sweeps images older than maxAge immediately and then every
// interval until ctx is cancelled.
func RunSweeper(ctx context.Context, s Sweeper, interval, maxAge time.Duration, logger *slog.Logger) {
	sweep := func() {
		n, err := s.Sweep(ctx, time.Now().Add(-maxAge))
		if err != nil {
			logger.Error("upload sweep failed", "error", err)
		}
		if n > 0 {
			logger.Info("swept abandoned uploads", "count", n)
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// allowedImageTypes are the formats http.DetectContentType recognises by
// magic bytes. WebP has no signature in the WHATWG sniffing table, so it is
// checked separately.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// DetectImageMIME returns the detected MIME type and true if data is an
// accepted image format, or ("", false) otherwise.
func DetectImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}
