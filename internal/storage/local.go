package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalHandle is the local-filesystem backend, rooted at a base directory.
// It backs local development and the degraded mode when cloud storage is
// unreachable. Local handles never expire; there is no credential to go
// stale.
type LocalHandle struct {
	root   string
	logger *slog.Logger
}

// NewLocalHandle creates a local handle rooted at root, creating the root
// directory if needed.
func NewLocalHandle(root string, logger *slog.Logger) (*LocalHandle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if root == "" {
		return nil, fmt.Errorf("%w: empty storage root", ErrInvalidName)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage root %s: %w", root, err)
	}
	return &LocalHandle{root: root, logger: logger}, nil
}

// Kind implements Handle.
func (h *LocalHandle) Kind() BackendKind { return BackendLocal }

// Root returns the base directory of the handle.
func (h *LocalHandle) Root() string { return h.root }

// resolve validates (dir, name) and returns the absolute path, rejecting
// anything that would resolve outside the root (grounded on the same check
// file stores use against workspace escapes).
func (h *LocalHandle) resolve(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: empty dir", ErrInvalidName)
	}
	if name != "" && strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: name %q contains a separator", ErrInvalidName, name)
	}

	p := filepath.Join(h.root, dir, name)
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	absRoot, err := filepath.Abs(h.root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return absPath, nil
}

// ReadFile implements Handle. A missing file reads as (nil, nil).
func (h *LocalHandle) ReadFile(ctx context.Context, dir, name string) ([]byte, error) {
	p, err := h.resolve(dir, name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", dir, name, err)
	}
	return data, nil
}

// WriteFile implements Handle. The write is atomic: content goes to a
// uniquely named temp file in the same directory, then rename replaces the
// target, so a concurrent reader never observes a partial file.
func (h *LocalHandle) WriteFile(ctx context.Context, dir, name string, content []byte) error {
	if name == "" {
		return fmt.Errorf("%w: empty file name", ErrInvalidName)
	}
	p, err := h.resolve(dir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp := p + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, content, 0o640); err != nil {
		return fmt.Errorf("writing %s/%s: %w", dir, name, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s/%s: %w", dir, name, err)
	}

	h.logger.Debug("wrote file", "backend", BackendLocal, "dir", dir, "name", name, "bytes", len(content))
	return nil
}

// ListFiles implements Handle. A missing directory lists as empty.
func (h *LocalHandle) ListFiles(ctx context.Context, dir string) ([]FileInfo, error) {
	p, err := h.resolve(dir, "")
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var infos []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || strings.Contains(entry.Name(), ".tmp-") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		infos = append(infos, FileInfo{Name: entry.Name(), Size: fi.Size(), ModTime: fi.ModTime()})
	}
	return infos, nil
}

// EnsureDirectory implements Handle.
func (h *LocalHandle) EnsureDirectory(ctx context.Context, dir string) error {
	p, err := h.resolve(dir, "")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
