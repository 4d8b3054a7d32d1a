package exporter

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"housingml/internal/config"
	"housingml/internal/model"
)

// StepSummary is one row of the per-step section of a run report
type StepSummary struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Message  string        `json:"message,omitempty"`
}

// RunReport collects everything the exporter writes for one pipeline run
type RunReport struct {
	OperationID  string            `json:"operation_id"`
	ArchivePath  string            `json:"archive_path"`
	TargetColumn string            `json:"target_column"`
	GeneratedAt  time.Time         `json:"generated_at"`
	TrainRows    int               `json:"train_rows"`
	TestRows     int               `json:"test_rows"`
	FeatureNames []string          `json:"feature_names"`
	Evaluation   *model.Evaluation `json:"evaluation"`
	Steps        []StepSummary     `json:"steps"`
}

// ReportExporter writes run reports as CSV summaries and Excel workbooks
type ReportExporter struct {
	paths *config.Paths
	csv   *CSVWriter
}

// NewReportExporter creates a report exporter rooted at the configured paths
func NewReportExporter(paths *config.Paths) *ReportExporter {
	return &ReportExporter{paths: paths, csv: NewCSVWriter(paths)}
}

// Export writes the CSV summary and the workbook for a run and returns the
// workbook path.
func (e *ReportExporter) Export(report *RunReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("nil run report")
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}

	if err := e.exportSummaryCSV(report); err != nil {
		return "", err
	}

	workbookPath, err := e.exportWorkbook(report)
	if err != nil {
		return "", err
	}

	slog.Info("run report exported",
		slog.String("operation_id", report.OperationID),
		slog.String("workbook", workbookPath))
	return workbookPath, nil
}

// SummaryCSVName returns the summary file name for an operation
func SummaryCSVName(operationID string) string {
	return fmt.Sprintf("run_%s_summary.csv", operationID)
}

// WorkbookName returns the workbook file name for an operation
func WorkbookName(operationID string) string {
	return fmt.Sprintf("run_%s_report.xlsx", operationID)
}

func (e *ReportExporter) exportSummaryCSV(report *RunReport) error {
	records := [][]string{
		{"operation_id", report.OperationID},
		{"archive", report.ArchivePath},
		{"target_column", report.TargetColumn},
		{"generated_at", report.GeneratedAt.Format(time.RFC3339)},
		{"train_rows", strconv.Itoa(report.TrainRows)},
		{"test_rows", strconv.Itoa(report.TestRows)},
		{"features", strconv.Itoa(len(report.FeatureNames))},
	}
	if report.Evaluation != nil {
		records = append(records,
			[]string{"mse", formatFloat(report.Evaluation.MSE)},
			[]string{"rmse", formatFloat(report.Evaluation.RMSE)},
			[]string{"mae", formatFloat(report.Evaluation.MAE)},
			[]string{"r2", formatFloat(report.Evaluation.R2)},
		)
	}

	return e.csv.WriteSimpleCSV(SummaryCSVName(report.OperationID),
		[]string{"metric", "value"}, records)
}

func (e *ReportExporter) exportWorkbook(report *RunReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	const stepsSheet = "Steps"

	// The default sheet becomes Summary
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(stepsSheet); err != nil {
		return "", fmt.Errorf("failed to create steps sheet: %w", err)
	}

	summaryRows := [][]any{
		{"Operation ID", report.OperationID},
		{"Archive", report.ArchivePath},
		{"Target Column", report.TargetColumn},
		{"Generated At", report.GeneratedAt.Format(time.RFC3339)},
		{"Training Rows", report.TrainRows},
		{"Test Rows", report.TestRows},
		{"Features", len(report.FeatureNames)},
	}
	if report.Evaluation != nil {
		summaryRows = append(summaryRows,
			[]any{"MSE", report.Evaluation.MSE},
			[]any{"RMSE", report.Evaluation.RMSE},
			[]any{"MAE", report.Evaluation.MAE},
			[]any{"R2", report.Evaluation.R2},
		)
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	stepRows := [][]any{{"Step", "Name", "Status", "Duration", "Message"}}
	for _, step := range report.Steps {
		stepRows = append(stepRows, []any{
			step.ID, step.Name, step.Status, step.Duration.String(), step.Message,
		})
	}
	for i, row := range stepRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(stepsSheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write step row: %w", err)
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		return "", fmt.Errorf("failed to set column width: %w", err)
	}

	path := e.paths.ReportPath(WorkbookName(report.OperationID))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
