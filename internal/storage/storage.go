// Package storage provides the shared storage layer for agent collaborators:
// a capability interface over two backends (credentialed cloud storage and a
// local directory) and a TTL-guarded manager that owns the single live handle
// per process.
//
// Callers never construct or destroy handles directly; they borrow one
// through the manager's accessor. The manager matches the backend to the
// runtime environment and rebuilds a cloud handle whose credentials have
// aged past the TTL.
package storage

import (
	"context"
	"time"
)

// BackendKind names a storage backend.
type BackendKind string

// Backend kinds.
const (
	BackendLocal BackendKind = "local"
	BackendCloud BackendKind = "cloud"
)

// FileInfo describes one stored file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Handle is the capability surface shared by both backends.
//
// Files are addressed as (dir, name): a single-level directory and a file
// name within it. Presence/absence semantics: ReadFile of a non-existent
// file returns (nil, nil), never an error.
type Handle interface {
	// ReadFile returns the file content, or nil if the file does not exist.
	ReadFile(ctx context.Context, dir, name string) ([]byte, error)

	// WriteFile creates or replaces the file.
	WriteFile(ctx context.Context, dir, name string, content []byte) error

	// ListFiles returns info for every file directly under dir.
	// A missing directory lists as empty, not as an error.
	ListFiles(ctx context.Context, dir string) ([]FileInfo, error)

	// EnsureDirectory makes sure dir exists.
	EnsureDirectory(ctx context.Context, dir string) error

	// Kind names the backend, for callers and log lines.
	Kind() BackendKind
}
