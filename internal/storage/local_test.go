package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rboyd0/agentstore/internal/testutil"
)

func newLocalForTest(t *testing.T) *LocalHandle {
	t.Helper()
	h, err := NewLocalHandle(t.TempDir(), testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("NewLocalHandle() error = %v", err)
	}
	return h
}

func TestLocalWriteReadRoundTrip(t *testing.T) {
	h := newLocalForTest(t)
	ctx := context.Background()

	content := []byte(`{"name":"demo_agent"}`)
	if err := h.WriteFile(ctx, "agents", "demo.json", content); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := h.ReadFile(ctx, "agents", "demo.json")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("ReadFile() = %q, want %q", got, content)
	}
}

func TestLocalReadMissingFileIsAbsence(t *testing.T) {
	h := newLocalForTest(t)

	data, err := h.ReadFile(context.Background(), "agents", "nope.json")
	if err != nil {
		t.Fatalf("ReadFile() of missing file error = %v, want nil", err)
	}
	if data != nil {
		t.Errorf("ReadFile() of missing file = %q, want nil", data)
	}
}

func TestLocalWriteOverwrites(t *testing.T) {
	h := newLocalForTest(t)
	ctx := context.Background()

	if err := h.WriteFile(ctx, "d", "f.txt", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := h.WriteFile(ctx, "d", "f.txt", []byte("new")); err != nil {
		t.Fatal(err)
	}

	got, err := h.ReadFile(ctx, "d", "f.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("ReadFile() after overwrite = %q, want %q", got, "new")
	}
}

func TestLocalWriteLeavesNoTempFiles(t *testing.T) {
	h := newLocalForTest(t)
	ctx := context.Background()

	if err := h.WriteFile(ctx, "d", "f.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(h.Root(), "d"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "f.txt" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only f.txt", names)
	}
}

func TestLocalListFiles(t *testing.T) {
	h := newLocalForTest(t)
	ctx := context.Background()

	for _, name := range []string{"a.json", "b.json", "c.json"} {
		if err := h.WriteFile(ctx, "agents", name, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := h.ListFiles(ctx, "agents")
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("ListFiles() returned %d entries, want 3", len(infos))
	}
	for _, info := range infos {
		if info.Size != 2 {
			t.Errorf("%s: Size = %d, want 2", info.Name, info.Size)
		}
		if info.ModTime.IsZero() {
			t.Errorf("%s: ModTime is zero", info.Name)
		}
	}
}

func TestLocalListMissingDirIsEmpty(t *testing.T) {
	h := newLocalForTest(t)

	infos, err := h.ListFiles(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ListFiles() of missing dir error = %v, want nil", err)
	}
	if len(infos) != 0 {
		t.Errorf("ListFiles() of missing dir = %v, want empty", infos)
	}
}

func TestLocalEnsureDirectory(t *testing.T) {
	h := newLocalForTest(t)

	if err := h.EnsureDirectory(context.Background(), "cache"); err != nil {
		t.Fatalf("EnsureDirectory() error = %v", err)
	}
	fi, err := os.Stat(filepath.Join(h.Root(), "cache"))
	if err != nil || !fi.IsDir() {
		t.Errorf("cache dir not created: %v", err)
	}

	// Idempotent.
	if err := h.EnsureDirectory(context.Background(), "cache"); err != nil {
		t.Errorf("EnsureDirectory() second call error = %v", err)
	}
}

func TestLocalRejectsEscapes(t *testing.T) {
	h := newLocalForTest(t)
	ctx := context.Background()

	if _, err := h.ReadFile(ctx, "../outside", "f.txt"); !errors.Is(err, ErrPathEscape) {
		t.Errorf("ReadFile() with escaping dir = %v, want ErrPathEscape", err)
	}
	if err := h.WriteFile(ctx, "..", "f.txt", nil); !errors.Is(err, ErrPathEscape) {
		t.Errorf("WriteFile() with escaping dir = %v, want ErrPathEscape", err)
	}
	if err := h.WriteFile(ctx, "d", "../f.txt", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("WriteFile() with separator in name = %v, want ErrInvalidName", err)
	}
	if _, err := h.ReadFile(ctx, "", "f.txt"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("ReadFile() with empty dir = %v, want ErrInvalidName", err)
	}
	if err := h.WriteFile(ctx, "d", "", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("WriteFile() with empty name = %v, want ErrInvalidName", err)
	}
}

func TestLocalKind(t *testing.T) {
	if got := newLocalForTest(t).Kind(); got != BackendLocal {
		t.Errorf("Kind() = %q, want %q", got, BackendLocal)
	}
}
