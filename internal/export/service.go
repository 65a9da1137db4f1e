// Package export flattens a risk report into an XLSX workbook for broker
// handoff.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Code4Pete/trade-mvp/internal/entity"
)

// Service produces XLSX bytes from risk reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportReportXLSX returns a workbook with a summary sheet and one row per
// issue.
func (s *Service) ExportReportXLSX(rep *entity.RiskReport) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const summarySheet = "Summary"
	const issuesSheet = "Issues"

	// The default sheet becomes the summary.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(issuesSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(summarySheet)
	f.SetActiveSheet(activeIndex)

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	summaryRows := [][2]any{
		{"Report ID", rep.ID.String()},
		{"Generated At", rep.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Route", fmt.Sprintf("%s -> %s", rep.Route.OriginCountry, rep.Route.DestinationCountry)},
		{"Risk Score", rep.RiskScore},
		{"Risk Band", string(rep.RiskBand)},
		{"Issues", len(rep.Issues)},
	}
	if rep.Readiness != nil {
		summaryRows = append(summaryRows,
			[2]any{"Readiness Score", rep.Readiness.Score},
			[2]any{"Readiness Level", string(rep.Readiness.Level)},
			[2]any{"Missing Baseline Fields", len(rep.Readiness.MissingFields)},
		)
	}
	for i, kv := range summaryRows {
		write(summarySheet, 1, i+1, kv[0])
		write(summarySheet, 2, i+1, kv[1])
	}

	headers := []string{"Severity", "Code", "Title", "Explanation", "Recommendation", "Evidence"}
	for i, h := range headers {
		write(issuesSheet, i+1, 1, h)
	}
	for i, issue := range rep.Issues {
		row := i + 2
		write(issuesSheet, 1, row, string(issue.Severity))
		write(issuesSheet, 2, row, issue.Code)
		write(issuesSheet, 3, row, issue.Title)
		write(issuesSheet, 4, row, issue.Explanation)
		write(issuesSheet, 5, row, issue.Recommendation)
		evidence, err := json.Marshal(issue.Evidence)
		if err != nil {
			evidence = []byte("{}")
		}
		write(issuesSheet, 6, row, string(evidence))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("report exported",
		"report_id", rep.ID, "issues", len(rep.Issues),
		"bytes", buf.Len(), "duration_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
