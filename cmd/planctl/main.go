package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/resto-planning/shift-planner/backend/internal/bootstrap"
	"github.com/resto-planning/shift-planner/backend/internal/config"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/store"
)

var (
	logger     *slog.Logger
	cfg        *config.Config
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Outils d'administration du planning",
	Long:  "planctl inspecte et répare le planning directement sur le stockage configuré, sans passer par l'API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "sortie au format JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "erreur: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return fmt.Errorf("chargement de la configuration: %w", err)
	}

	// les journaux vont sur stderr, la sortie reste exploitable
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	return nil
}

// openEngine ouvre le stockage. L'appelant ferme le Backend renvoyé.
// Sans enforce, les créneaux hors grille restent tels quels pour être inspectés.
func openEngine(enforce bool) (*planning.Engine, store.Backend, error) {
	backend, err := store.Open(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("ouverture du stockage: %w", err)
	}

	build := bootstrap.NewEngine
	if enforce {
		build = bootstrap.Engine
	}
	engine, err := build(cfg, backend, logger)
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return engine, backend, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
