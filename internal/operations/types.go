package operations

import "time"

// Pipeline step identifiers
const (
	StepIDIngest   = "ingest"
	StepIDOutliers = "outliers"
	StepIDMissing  = "missing"
	StepIDSplit    = "split"
	StepIDTrain    = "train"
	StepIDEvaluate = "evaluate"
	StepIDExport   = "export"
)

// Pipeline step names
const (
	StepNameIngest   = "Data Ingestion"
	StepNameOutliers = "Outlier Removal"
	StepNameMissing  = "Missing Value Handling"
	StepNameSplit    = "Train/Test Split"
	StepNameTrain    = "Model Training"
	StepNameEvaluate = "Model Evaluation"
	StepNameExport   = "Report Export"
)

// Context keys for values passed between steps
const (
	ContextKeyArchivePath  = "archive_path"
	ContextKeyTargetColumn = "target_column"
	ContextKeyTable        = "table"
	ContextKeySplit        = "split"
	ContextKeyModel        = "model"
	ContextKeyEvaluation   = "evaluation"
	ContextKeyReportPath   = "report_path"
	ContextKeyRowsIngested = "rows_ingested"
	ContextKeyRowsDropped  = "rows_dropped"
	ContextKeyColsDropped  = "cols_dropped"
)

// Broadcast event types
const (
	EventTypeOperationStatus   = "operation:status"
	EventTypeOperationProgress = "operation:progress"
	EventTypeOperationComplete = "operation:complete"
	EventTypeOperationError    = "operation:error"
)

// DefaultStepTimeout bounds a single step execution
const DefaultStepTimeout = 10 * time.Minute

// OperationRequest describes a pipeline run to execute
type OperationRequest struct {
	ID           string         `json:"id,omitempty"`
	ArchivePath  string         `json:"archive_path" validate:"required"`
	TargetColumn string         `json:"target_column,omitempty"`
	Step         string         `json:"step,omitempty"`
	Parameters   map[string]any `json:"parameters,omitempty"`
}

// OperationResponse summarizes a finished or failed pipeline run
type OperationResponse struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	Steps      []*StepState  `json:"steps"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Evaluation any           `json:"evaluation,omitempty"`
	ReportPath string        `json:"report_path,omitempty"`
}
