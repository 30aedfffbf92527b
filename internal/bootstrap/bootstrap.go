package bootstrap

import (
	"log/slog"

	"github.com/resto-planning/shift-planner/backend/internal/config"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/store"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

func Rules(cfg *config.Config) planning.Rules {
	return planning.Rules{
		MinShiftDuration:    cfg.Planning.MinShiftDuration,
		MaxShiftDuration:    cfg.Planning.MaxShiftDuration,
		MaxWeeklyHours:      cfg.Planning.MaxWeeklyHours,
		MinRestPeriod:       cfg.Planning.MinRestPeriod,
		WrapWeekForRest:     cfg.Planning.WrapWeekForRest,
		RestFromElapsedTime: cfg.Planning.RestFromElapsedTime,
	}
}

// Engine construit la grille et le moteur de planning à partir de la configuration.
// Aucun créneau hors grille ne reste au planning après le chargement : selon
// PLANNING_LOAD_POLICY ils sont recalés quand c'est possible, sinon retirés.
func Engine(cfg *config.Config, backend store.Backend, logger *slog.Logger, opts ...planning.Option) (*planning.Engine, error) {
	engine, err := NewEngine(cfg, backend, logger, opts...)
	if err != nil {
		return nil, err
	}

	fixed, dropped, err := engine.EnforceGrid(cfg.Planning.LoadPolicy == config.LoadRepair)
	if err != nil {
		return nil, err
	}
	if fixed > 0 || len(dropped) > 0 {
		logger.Warn("créneaux hors grille au chargement", "policy", cfg.Planning.LoadPolicy, "fixed", fixed, "dropped", dropped)
	}
	return engine, nil
}

// NewEngine ne touche pas aux créneaux enregistrés. Réservé aux outils qui
// inspectent ou réparent la grille eux-mêmes.
func NewEngine(cfg *config.Config, backend store.Backend, logger *slog.Logger, opts ...planning.Option) (*planning.Engine, error) {
	grid, err := timegrid.New(cfg.Planning.OpeningHour, cfg.Planning.ClosingHour, cfg.Planning.Granularity)
	if err != nil {
		return nil, err
	}

	opts = append([]planning.Option{planning.WithLogger(logger)}, opts...)
	return planning.NewEngine(grid, Rules(cfg), backend, backend, opts...), nil
}
