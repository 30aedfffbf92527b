package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/resto-planning/shift-planner/backend/internal/bootstrap"
	"github.com/resto-planning/shift-planner/backend/internal/config"
	"github.com/resto-planning/shift-planner/backend/internal/seed"
	"github.com/resto-planning/shift-planner/backend/internal/store"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "opération (1: employés aléatoires, 2: créneaux aléatoires, 3: données de démonstration)")
	flag.IntVar(&n, "n", 5, "nombre d'enregistrements à générer")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de charger la configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	backend, err := store.Open(cfg, logger)
	if err != nil {
		logger.Error("impossible d'ouvrir le stockage", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	// pas de notification pendant le remplissage
	engine, err := bootstrap.Engine(cfg, backend, logger)
	if err != nil {
		logger.Error("impossible de créer le moteur de planning", "error", err)
		return
	}

	switch op {
	case 0:
		slog.Error("aucune opération indiquée")
	case 1:
		if n <= 0 {
			slog.Error("nombre d'employés invalide")
			return
		}
		created, err := seed.SeedRandomEmployees(backend, n, cfg.Seed.EmailDomain)
		if err != nil {
			slog.Error("impossible d'insérer les employés", slog.String("error", err.Error()))
		}
		slog.Info("employés insérés", slog.Int("count", created))
	case 2:
		if n <= 0 {
			slog.Error("nombre de créneaux invalide")
			return
		}
		result, err := seed.SeedRandomShifts(backend, engine, n)
		if err != nil {
			slog.Error("impossible d'insérer les créneaux", slog.String("error", err.Error()))
			return
		}
		slog.Info("créneaux proposés", slog.Int("accepted", result.Accepted), slog.Int("rejected", result.Rejected))
	case 3:
		if _, err := seed.SeedDemoData(backend, engine); err != nil {
			slog.Error("impossible d'insérer les données de démonstration", slog.String("error", err.Error()))
		}
	default:
		slog.Error("opération inconnue", slog.Int("op", op))
	}
}
