package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"financas/internal/core"
	"financas/internal/export"
	"financas/internal/services"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exportar",
		Aliases: []string{"export"},
		Short:   "Write a client's period report to an XLSX file",
		Long: `Build the same report the dashboard downloads and save it to disk.

Examples:
  financas-admin exportar --cliente 3 --modo mes --ano 2025 --mes 3
  financas-admin exportar --cliente 3 --modo personalizado --inicio 2025-01-01 --fim 2025-06-30`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().Int64("cliente", 0, "client id (required)")
	cmd.Flags().String("modo", string(core.PeriodMonth), "period mode: mes, ano or personalizado")
	cmd.Flags().Int("ano", 0, "year for the mes and ano modes (default current)")
	cmd.Flags().Int("mes", 0, "month for the mes mode (default current)")
	cmd.Flags().String("inicio", "", "first day for the personalizado mode (YYYY-MM-DD)")
	cmd.Flags().String("fim", "", "last day for the personalizado mode (YYYY-MM-DD)")
	cmd.Flags().StringP("saida", "o", "", "output file (default relatorio_<inicio>_<fim>.xlsx)")
	_ = cmd.MarkFlagRequired("cliente")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetInt64("cliente")
	if clientID <= 0 {
		return errors.New("--cliente must be a positive id")
	}
	mode, _ := cmd.Flags().GetString("modo")
	year, _ := cmd.Flags().GetInt("ano")
	month, _ := cmd.Flags().GetInt("mes")
	start, _ := cmd.Flags().GetString("inicio")
	end, _ := cmd.Flags().GetString("fim")
	out, _ := cmd.Flags().GetString("saida")

	period, err := core.PeriodFilter{
		Mode:  core.PeriodMode(mode),
		Year:  year,
		Month: month,
		Start: start,
		End:   end,
	}.Resolve(time.Now())
	if err != nil {
		return err
	}

	be, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = be.Cleanup() }()

	report, err := services.NewReportService(be.Store, nil).Build(cmd.Context(), clientID, period)
	if err != nil {
		return err
	}

	if out == "" {
		out = export.Filename(period)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := export.Write(f, report); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Report %s to %s written to %s (%d receitas, %d despesas)\n",
		period.Start, period.End, out, len(report.Income), len(report.Expense))
	return nil
}
