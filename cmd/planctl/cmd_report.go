package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
)

var statsDays string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Recherche les créneaux qui se chevauchent dans tout le planning",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *planning.Engine) error {
			return audit(cmd.OutOrStdout(), engine)
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Heures et coût de la semaine",
	Long: `Agrège les créneaux de la semaine, ou des seuls jours indiqués.

Exemple :
  planctl stats --days Vendredi,Samedi,Dimanche`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := domain.ParseDays(statsDays)
		if err != nil {
			return err
		}
		return withEngine(func(engine *planning.Engine) error {
			return stats(cmd.OutOrStdout(), engine, days)
		})
	},
}

func init() {
	rootCmd.AddCommand(auditCmd, statsCmd)

	statsCmd.Flags().StringVar(&statsDays, "days", "", "jours séparés par des virgules (toute la semaine par défaut)")
}

func audit(w io.Writer, engine *planning.Engine) error {
	conflicts, err := engine.AuditConflicts()
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(w, conflicts)
	}

	if len(conflicts) == 0 {
		fmt.Fprintln(w, "Aucun conflit.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOUR\tTYPE\tGRAVITÉ\tCRÉNEAU 1\tCRÉNEAU 2\tRECOUVREMENT")
	for _, c := range conflicts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s %s\t%d min\n",
			c.Day, c.Type, c.Severity,
			c.First.EmployeeID, c.First.FormattedTime,
			c.Second.EmployeeID, c.Second.FormattedTime,
			c.OverlapMinutes)
	}
	return tw.Flush()
}

func stats(w io.Writer, engine *planning.Engine, days []domain.Day) error {
	report, err := engine.WeeklyStats(days)
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(w, report)
	}

	fmt.Fprintf(w, "Créneaux : %d\n", report.TotalShifts)
	fmt.Fprintf(w, "Heures   : %.2f\n", report.TotalHours)
	fmt.Fprintf(w, "Coût     : %.2f €\n", report.TotalCost)
	fmt.Fprintf(w, "Moyenne  : %.2f h par employé actif (%d)\n", report.AverageHoursPerActiveEmployee, report.ActiveEmployeeCount)
	if len(report.UnpricedEmployeeIDs) > 0 {
		fmt.Fprintf(w, "Sans taux horaire : %v\n", report.UnpricedEmployeeIDs)
	}

	ids := make([]string, 0, len(report.PerEmployeeHours))
	for id := range report.PerEmployeeHours {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nEMPLOYÉ\tHEURES\tCOÛT")
	for _, id := range ids {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", id, report.PerEmployeeHours[id], report.PerEmployeeCost[id])
	}
	return tw.Flush()
}
