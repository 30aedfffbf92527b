package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/resto-planning/shift-planner/backend/internal/config"
)

//go:embed schema.sql
var schema string

// Repository implémente le stockage des créneaux et des employés sur PostgreSQL
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// EnsureSchema crée les tables si elles n'existent pas
func (r *Repository) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, schema)
	return err
}

func (r *Repository) Close() error {
	return r.dbpool.Close()
}
