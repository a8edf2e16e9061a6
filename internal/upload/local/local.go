// Package local stages uploads as files on disk, one directory per owner.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/folio/internal/upload"
)

// extensions maps each accepted image type to the suffix its files carry.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps staged uploads under basePath/<owner>/<key>. Owners and keys
// are uuids, so a key can never name a path outside its owner's directory.
type Store struct {
	basePath string
	logger   *slog.Logger
}

func NewStore(basePath string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{basePath: basePath, logger: logger}, nil
}

func (s *Store) Save(ctx context.Context, owner, mimeType string, r io.Reader) (string, error) {
	if !validOwner(owner) {
		return "", fmt.Errorf("invalid upload owner %q", owner)
	}
	ext, ok := extensions[mimeType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", mimeType)
	}
	dir := filepath.Join(s.basePath, owner)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create owner directory: %w", err)
	}

	// Written under a temporary name so Get never sees a partial file.
	f, err := os.CreateTemp(dir, ".staging-*")
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	tmp := f.Name()
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		s.removeWithLog(tmp)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.removeWithLog(tmp)
		return "", fmt.Errorf("close file: %w", err)
	}

	key := uuid.NewString() + ext
	if err := os.Rename(tmp, filepath.Join(dir, key)); err != nil {
		s.removeWithLog(tmp)
		return "", fmt.Errorf("rename file: %w", err)
	}
	return key, nil
}

func (s *Store) Get(ctx context.Context, owner, key string) (io.ReadCloser, string, error) {
	path, mimeType, ok := s.resolve(owner, key)
	if !ok {
		return nil, "", upload.ErrNotFound
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", upload.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	return f, mimeType, nil
}

func (s *Store) Delete(ctx context.Context, owner, key string) error {
	path, _, ok := s.resolve(owner, key)
	if !ok {
		return upload.ErrNotFound
	}
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return upload.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	// Fails harmlessly while the owner still has other files staged.
	_ = os.Remove(filepath.Dir(path))
	return nil
}

// Sweep removes files last modified before the cutoff, including temporaries
// left by an interrupted Save, then any owner directory left empty. It
// returns the number of files removed.
func (s *Store) Sweep(ctx context.Context, before time.Time) (int, error) {
	owners, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("read upload directory: %w", err)
	}

	removed := 0
	var errs []error
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !owner.IsDir() {
			continue
		}
		dir := filepath.Join(s.basePath, owner.Name())
		entries, err := os.ReadDir(dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", owner.Name(), err))
			continue
		}
		left := len(entries)
		for _, e := range entries {
			info, err := e.Info()
			if err != nil || e.IsDir() || !info.ModTime().Before(before) {
				continue
			}
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("remove %s/%s: %w", owner.Name(), e.Name(), err))
				continue
			}
			removed++
			left--
		}
		if left == 0 {
			_ = os.Remove(dir)
		}
	}
	return removed, errors.Join(errs...)
}

// resolve returns the path and type of owner's key, or false if either is
// malformed.
func (s *Store) resolve(owner, key string) (string, string, bool) {
	if !validOwner(owner) {
		return "", "", false
	}
	ext := filepath.Ext(key)
	if _, err := uuid.Parse(strings.TrimSuffix(key, ext)); err != nil {
		return "", "", false
	}
	for mimeType, e := range extensions {
		if e == ext {
			return filepath.Join(s.basePath, owner, key), mimeType, true
		}
	}
	return "", "", false
}

func validOwner(owner string) bool {
	_, err := uuid.Parse(owner)
	return err == nil
}

func (s *Store) removeWithLog(path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Error("failed to remove partial upload", "path", path, "error", err)
	}
}
