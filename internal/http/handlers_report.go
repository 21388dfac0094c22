package http

import (
	"bytes"
	"fmt"
	"net/http"

	"financas/internal/core"
	"financas/internal/export"
	"financas/internal/log"
)

// handleReportSummary returns the dashboard data of the selected period:
// totals, chart series, both transaction lists and the goals.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request, client core.Client) {
	period := s.period(r)

	report, err := s.deps.Reports.Build(r.Context(), client.ID, period)
	if err != nil {
		s.writeError(w, r, err, log.ComponentReport, log.OpRead)
		return
	}
	goals, err := s.deps.Goals.List(r.Context(), client.ID)
	if err != nil {
		s.writeError(w, r, err, log.ComponentGoal, log.OpList)
		return
	}

	s.logger.DebugContext(r.Context(), "Report served",
		log.NewFields().WithClient(client.ID).WithPeriod(period.Start, period.End).ToSlice()...)
	NewResponse().JSON(toReportDTO(report, goals)).Write(w)
}

// handleReportExport streams the period report as an xlsx attachment. The
// workbook is rendered in memory first so a failure can still become a 500.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request, client core.Client) {
	period := s.period(r)

	report, err := s.deps.Reports.Build(r.Context(), client.ID, period)
	if err != nil {
		s.writeError(w, r, err, log.ComponentReport, log.OpExport)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, report); err != nil {
		s.writeError(w, r, err, log.ComponentReport, log.OpExport)
		return
	}

	s.logger.InfoContext(r.Context(), "Report exported",
		log.NewFields().WithClient(client.ID).WithPeriod(period.Start, period.End).ToSlice()...)

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(period)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
