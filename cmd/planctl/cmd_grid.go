package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/resto-planning/shift-planner/backend/internal/planning"
)

var migrateGranularity int

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Contrôle des créneaux par rapport à la grille horaire",
}

var gridCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Liste les créneaux qui ne tombent pas sur une case de la grille",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGridEngine(func(engine *planning.Engine) error {
			return gridCheck(cmd.OutOrStdout(), engine)
		})
	},
}

var gridRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Recale la minute de début des créneaux sur la grille actuelle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGridEngine(func(engine *planning.Engine) error {
			return gridRepair(cmd.OutOrStdout(), engine)
		})
	},
}

var gridMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Change la granularité et recale tous les créneaux",
	Long: `Recale tous les créneaux sur une nouvelle granularité.

La granularité du serveur vient de PLANNING_GRANULARITY : pensez à la mettre
à jour avant de redémarrer l'API.

Exemple :
  planctl grid migrate --granularity 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGridEngine(func(engine *planning.Engine) error {
			return gridMigrate(cmd.OutOrStdout(), engine, migrateGranularity)
		})
	},
}

var gridSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Propose une granularité adaptée aux créneaux existants",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGridEngine(func(engine *planning.Engine) error {
			return gridSuggest(cmd.OutOrStdout(), engine)
		})
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
	gridCmd.AddCommand(gridCheckCmd, gridRepairCmd, gridMigrateCmd, gridSuggestCmd)

	gridMigrateCmd.Flags().IntVar(&migrateGranularity, "granularity", 0, "nouvelle granularité en minutes (15, 30 ou 60)")
	_ = gridMigrateCmd.MarkFlagRequired("granularity")
}

func withEngine(fn func(engine *planning.Engine) error) error {
	return runEngine(true, fn)
}

// withGridEngine laisse les créneaux hors grille en place pour les commandes grid
func withGridEngine(fn func(engine *planning.Engine) error) error {
	return runEngine(false, fn)
}

func runEngine(enforce bool, fn func(engine *planning.Engine) error) error {
	engine, backend, err := openEngine(enforce)
	if err != nil {
		return err
	}
	defer backend.Close()

	return fn(engine)
}

func gridCheck(w io.Writer, engine *planning.Engine) error {
	ids, err := engine.ValidateAllShiftsAgainstGrid()
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(w, ids)
	}

	if len(ids) == 0 {
		fmt.Fprintf(w, "Tous les créneaux respectent la grille de %d minutes.\n", engine.Grid().Granularity())
		return nil
	}

	fmt.Fprintf(w, "%d créneau(x) hors grille :\n", len(ids))
	for _, id := range ids {
		shift, err := engine.GetShift(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s  %s %-9s %s\n", id, shift.EmployeeID, shift.Day, shift.FormattedTime())
	}
	return nil
}

func gridRepair(w io.Writer, engine *planning.Engine) error {
	fixed, err := engine.RepairAll()
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(w, map[string]int{"fixed": fixed})
	}

	fmt.Fprintf(w, "%d créneau(x) recalé(s).\n", fixed)
	return nil
}

func gridMigrate(w io.Writer, engine *planning.Engine, granularity int) error {
	previous := engine.Grid().Granularity()
	fixed, err := engine.MigrateGranularity(granularity)
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(w, map[string]int{"from": previous, "to": granularity, "fixed": fixed})
	}

	fmt.Fprintf(w, "Granularité %d -> %d minutes, %d créneau(x) recalé(s).\n", previous, granularity, fixed)
	return nil
}

func gridSuggest(w io.Writer, engine *planning.Engine) error {
	suggestion, err := engine.SuggestGranularity()
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(w, suggestion)
	}

	fmt.Fprintf(w, "Granularité actuelle : %d minutes\n", suggestion.Current)
	fmt.Fprintf(w, "Suggestion : %d minutes (%s)\n", suggestion.Suggested, suggestion.Reason)
	return nil
}
