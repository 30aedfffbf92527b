package cache

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/filestore"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		revision uint64
		days     []domain.Day
		want     string
	}{
		{"semaine entière", 3, nil, "planning:stats:e1:3:all"},
		{"ordre de la semaine", 3, []domain.Day{domain.Friday, domain.Monday}, "planning:stats:e1:3:Lundi,Vendredi"},
		{"doublons", 4, []domain.Day{domain.Monday, domain.Monday}, "planning:stats:e1:4:Lundi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key("e1", tt.revision, tt.days); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Après un redémarrage la révision repart de zéro, la clé doit quand même changer
func TestKeyDiffersAcrossEngines(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newEngine := func() *planning.Engine {
		st, err := filestore.Open(t.TempDir(), logger)
		if err != nil {
			t.Fatalf("filestore.Open() error = %v", err)
		}
		grid, err := timegrid.New(8, 23, 15)
		if err != nil {
			t.Fatalf("timegrid.New() error = %v", err)
		}
		return planning.NewEngine(grid, planning.DefaultRules(), st, st, planning.WithLogger(logger))
	}

	before, after := newEngine(), newEngine()
	if before.Revision() != 0 || after.Revision() != 0 {
		t.Fatalf("revisions = %d and %d, want 0", before.Revision(), after.Revision())
	}

	days := []domain.Day{domain.Friday}
	for _, d := range [][]domain.Day{nil, days} {
		k1 := Key(before.Epoch(), before.Revision(), d)
		k2 := Key(after.Epoch(), after.Revision(), d)
		if k1 == k2 {
			t.Errorf("Key(%v) = %q for both engines", d, k1)
		}
	}
}

func TestGetUnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer rdb.Close()

	c := New(rdb, time.Minute, 200*time.Millisecond)
	if _, ok, err := c.Get("planning:stats:e1:1:all"); err == nil || ok {
		t.Errorf("Get() = %v, %v; want an error", ok, err)
	}
}
