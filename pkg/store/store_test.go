package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/umlflow/pkg/layout"
)

func sampleResult() *layout.Result {
	return &layout.Result{
		Positions: map[string]layout.Position{
			"start": {X: 10, Y: 20, Width: 30, Height: 30, Role: "start"},
		},
		Grid:   layout.GridInfo{Columns: 1, Rows: 1, Width: 30, Height: 30},
		Layers: [][]string{{"start"}},
	}
}

// backends returns a fresh instance of every store that runs without
// external services, plus a hook to move its clock.
func backends(t *testing.T) map[string]struct {
	s       Store
	setTime func(time.Time)
} {
	t.Helper()
	mem := NewMemoryStore()
	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]struct {
		s       Store
		setTime func(time.Time)
	}{
		"memory": {mem, func(now time.Time) { mem.now = func() time.Time { return now } }},
		"file":   {file, func(now time.Time) { file.now = func() time.Time { return now } }},
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord(sampleResult(), "d", "c", 0)
	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", rec.ID, err)
	}
	if got := rec.ExpiresAt.Sub(rec.CreatedAt); got != DefaultTTL {
		t.Errorf("ttl = %v, want %v", got, DefaultTTL)
	}
	if other := NewRecord(sampleResult(), "d", "c", time.Hour); other.ID == rec.ID {
		t.Error("record IDs should be unique")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := NewRecord(sampleResult(), "diag", "cfg", time.Hour)
			if err := b.s.Put(ctx, rec); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := b.s.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.DiagramHash != "diag" || got.ConfigHash != "cfg" {
				t.Errorf("hashes = %q/%q", got.DiagramHash, got.ConfigHash)
			}
			if p := got.Result.Positions["start"]; p.X != 10 || p.Role != "start" {
				t.Errorf("position = %+v", p)
			}

			if err := b.s.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := b.s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
			}
			if err := b.s.Delete(ctx, rec.ID); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := NewRecord(sampleResult(), "d", "c", time.Minute)
			if err := b.s.Put(ctx, rec); err != nil {
				t.Fatal(err)
			}
			b.setTime(rec.ExpiresAt.Add(time.Second))

			if _, err := b.s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expired Get: err = %v, want ErrNotFound", err)
			}
			if err := b.s.Cleanup(ctx); err != nil {
				t.Errorf("Cleanup: %v", err)
			}
		})
	}
}

func TestStoreUnknownID(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{uuid.NewString(), "../../etc/passwd", ""} {
				if _, err := b.s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
					t.Errorf("Get(%q): err = %v, want ErrNotFound", id, err)
				}
			}
		})
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	live := NewRecord(sampleResult(), "a", "c", time.Hour)
	dead := NewRecord(sampleResult(), "b", "c", time.Minute)
	_ = s.Put(ctx, live)
	_ = s.Put(ctx, dead)

	now := dead.ExpiresAt.Add(time.Second)
	s.now = func() time.Time { return now }
	if err := s.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestFileStoreCleanupRemovesFiles(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecord(sampleResult(), "d", "c", time.Minute)
	if err := s.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}
	now := rec.ExpiresAt.Add(time.Second)
	s.now = func() time.Time { return now }

	if err := s.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(s.Path(), rec.ID+".json")); !os.IsNotExist(err) {
		t.Error("expired record file still on disk")
	}
}

func TestFileStoreRejectsBadID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := &Record{ID: "../escape", Result: sampleResult()}
	if err := s.Put(context.Background(), rec); err == nil {
		t.Error("Put with a path-like ID should fail")
	}
}

func TestMongoConfigDefaults(t *testing.T) {
	var c MongoConfig
	c.SetDefaults()
	if c.URI != "mongodb://localhost:27017" || c.Database != "umlflow" || c.Collection != "layouts" {
		t.Errorf("defaults = %+v", c)
	}
	c = MongoConfig{Database: "custom"}
	c.SetDefaults()
	if c.Database != "custom" {
		t.Errorf("Database overwritten: %q", c.Database)
	}
}
