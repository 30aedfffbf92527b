package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/resto-planning/shift-planner/backend/internal/config"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/filestore"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Backend réunit le stockage des créneaux et l'annuaire des employés
type Backend interface {
	planning.ShiftStore
	planning.EmployeeDirectory
	CreateEmployee(employee *domain.Employee) error
	DeactivateEmployee(employeeID string) error
	Close() error
}

var (
	_ Backend = (*filestore.Store)(nil)
	_ Backend = (*repository.Repository)(nil)
)

// Open choisit le stockage selon STORAGE_DRIVER
func Open(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		return filestore.Open(cfg.Storage.DataDir, logger)
	case config.StoragePostgres:
		return openPostgres(cfg, logger)
	default:
		return nil, fmt.Errorf("stockage inconnu: %q", cfg.Storage.Driver)
	}
}

func openPostgres(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open ne se connecte pas, le ping vérifie que la base répond
	if err := dbpool.PingContext(ctx); err != nil {
		_ = dbpool.Close()
		return nil, err
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.EnsureSchema(); err != nil {
		_ = dbpool.Close()
		return nil, err
	}

	logger.Info("connecté à PostgreSQL")
	return repo, nil
}
