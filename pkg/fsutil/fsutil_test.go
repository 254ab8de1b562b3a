package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZabraveniGeroi/blogc/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	if err := os.WriteFile(path, []byte("# hi"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	content, info, err := fsutil.ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "# hi" {
		t.Errorf("content = %q", content)
	}
	if info.Size != 4 || info.Path != path {
		t.Errorf("info = %+v", info)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "missing", path: filepath.Join(dir, "nope.md"), want: fsutil.ErrNotFound},
		{name: "directory", path: dir, want: fsutil.ErrIsDirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := fsutil.ReadFile(context.Background(), tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	setup := func(t *testing.T) (string, *fsutil.FileInfo) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "post.md")
		if err := os.WriteFile(path, []byte("original"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		return path, info
	}

	t.Run("untouched file", func(t *testing.T) {
		t.Parallel()
		_, info := setup(t)
		if changed, err := fsutil.Changed(ctx, info); err != nil || changed {
			t.Errorf("Changed() = (%v, %v), want (false, nil)", changed, err)
		}
	})

	t.Run("touched", func(t *testing.T) {
		t.Parallel()
		path, info := setup(t)
		// A different mod time counts as a change without hashing.
		later := info.ModTime.Add(time.Second)
		if err := os.Chtimes(path, later, later); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
		if changed, err := fsutil.Changed(ctx, info); err != nil || !changed {
			t.Errorf("Changed() = (%v, %v), want (true, nil) on mod time change", changed, err)
		}
	})

	t.Run("new content", func(t *testing.T) {
		t.Parallel()
		path, info := setup(t)
		if err := os.WriteFile(path, []byte("modified!"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if changed, err := fsutil.Changed(ctx, info); err != nil || !changed {
			t.Errorf("Changed() = (%v, %v), want (true, nil)", changed, err)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		path, info := setup(t)
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if changed, err := fsutil.Changed(ctx, info); err != nil || !changed {
			t.Errorf("Changed() = (%v, %v), want (true, nil)", changed, err)
		}
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()
		if _, err := fsutil.Changed(ctx, nil); !errors.Is(err, fsutil.ErrNilFileInfo) {
			t.Errorf("error = %v, want ErrNilFileInfo", err)
		}
	})
}
