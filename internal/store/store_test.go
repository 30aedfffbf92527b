package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/resto-planning/shift-planner/backend/internal/config"
)

func TestOpenFileBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageFile
	cfg.Storage.DataDir = t.TempDir()

	backend, err := Open(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	defer backend.Close()

	shifts, err := backend.AllShifts()
	if err != nil || len(shifts) != 0 {
		t.Errorf("AllShifts() = %v, %v", shifts, err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = "sqlite"

	if _, err := Open(cfg, slog.Default()); err == nil {
		t.Fatal("Open() should reject an unknown driver")
	}
}
