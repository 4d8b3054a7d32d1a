package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"housingml/internal/config"
	"housingml/internal/exporter"
	"housingml/internal/ingest"
	"housingml/internal/model"
	"housingml/internal/preprocess"
)

// IngestStep loads the input archive into a working table
type IngestStep struct {
	BaseStep
	factory *ingest.Factory
	metrics *Metrics
}

// NewIngestStep creates the ingestion step; metrics may be nil
func NewIngestStep(factory *ingest.Factory, metrics *Metrics) *IngestStep {
	return &IngestStep{
		BaseStep: NewBaseStep(StepIDIngest, StepNameIngest, nil),
		factory:  factory,
		metrics:  metrics,
	}
}

// Validate requires an archive path
func (s *IngestStep) Validate(state *OperationState) error {
	if state.ArchivePath() == "" {
		return fmt.Errorf("no archive path provided")
	}
	return nil
}

// Execute picks an ingestor by file extension and loads the table
func (s *IngestStep) Execute(ctx context.Context, state *OperationState) error {
	path := state.ArchivePath()

	ingestor, err := s.factory.Create(filepath.Ext(path))
	if err != nil {
		return err
	}

	table, err := ingestor.Ingest(ctx, path)
	if err != nil {
		return err
	}

	state.SetTable(table)
	state.SetContext(ContextKeyRowsIngested, table.NumRows())
	if s.metrics != nil {
		s.metrics.RowsIngested.Add(float64(table.NumRows()))
	}

	if stepState := state.GetStep(s.ID()); stepState != nil {
		stepState.SetMetadata("rows", table.NumRows())
		stepState.SetMetadata("columns", table.NumCols())
	}

	slog.InfoContext(ctx, "archive ingested",
		slog.String("archive", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))
	return nil
}

// OutlierStep removes rows with extreme numeric values
type OutlierStep struct {
	BaseStep
	detector *preprocess.OutlierDetector
}

// NewOutlierStep creates the outlier removal step
func NewOutlierStep(fence float64) *OutlierStep {
	return &OutlierStep{
		BaseStep: NewBaseStep(StepIDOutliers, StepNameOutliers, []string{StepIDIngest}),
		detector: preprocess.NewOutlierDetector(fence),
	}
}

// Validate requires a loaded table
func (s *OutlierStep) Validate(state *OperationState) error {
	return requireTable(state)
}

// Execute applies the IQR fence filter
func (s *OutlierStep) Execute(ctx context.Context, state *OperationState) error {
	before := state.Table()

	filtered, err := s.detector.Apply(ctx, before)
	if err != nil {
		return err
	}

	dropped := before.NumRows() - filtered.NumRows()
	state.SetTable(filtered)
	state.SetContext(ContextKeyRowsDropped, dropped)
	if stepState := state.GetStep(s.ID()); stepState != nil {
		stepState.SetMetadata("rows_dropped", dropped)
	}
	return nil
}

// MissingValueStep drops sparse columns and imputes the remaining gaps
type MissingValueStep struct {
	BaseStep
	handler *preprocess.MissingValueHandler
}

// NewMissingValueStep creates the missing value handling step
func NewMissingValueStep(columnDropThreshold float64) *MissingValueStep {
	return &MissingValueStep{
		BaseStep: NewBaseStep(StepIDMissing, StepNameMissing, []string{StepIDOutliers}),
		handler:  preprocess.NewMissingValueHandler(columnDropThreshold),
	}
}

// Validate requires a loaded table
func (s *MissingValueStep) Validate(state *OperationState) error {
	return requireTable(state)
}

// Execute applies column drops and median imputation
func (s *MissingValueStep) Execute(ctx context.Context, state *OperationState) error {
	before := state.Table()

	handled, err := s.handler.Apply(ctx, before)
	if err != nil {
		return err
	}

	colsDropped := before.NumCols() - handled.NumCols()
	state.SetTable(handled)
	state.SetContext(ContextKeyColsDropped, colsDropped)
	if stepState := state.GetStep(s.ID()); stepState != nil {
		stepState.SetMetadata("columns_dropped", colsDropped)
	}
	return nil
}

// SplitStep partitions the table into train and test sets
type SplitStep struct {
	BaseStep
	cfg config.PipelineConfig
}

// NewSplitStep creates the train/test split step
func NewSplitStep(cfg config.PipelineConfig) *SplitStep {
	return &SplitStep{
		BaseStep: NewBaseStep(StepIDSplit, StepNameSplit, []string{StepIDMissing}),
		cfg:      cfg,
	}
}

// Validate requires a loaded table
func (s *SplitStep) Validate(state *OperationState) error {
	return requireTable(state)
}

// Execute performs the seeded shuffle split
func (s *SplitStep) Execute(ctx context.Context, state *OperationState) error {
	target := state.TargetColumn()
	if target == "" {
		target = s.cfg.TargetColumn
		state.SetContext(ContextKeyTargetColumn, target)
	}

	splitter := preprocess.NewSplitter(target, s.cfg.TestFraction, s.cfg.Seed)
	split, err := splitter.Apply(ctx, state.Table())
	if err != nil {
		return err
	}

	state.SetSplit(split)
	if stepState := state.GetStep(s.ID()); stepState != nil {
		stepState.SetMetadata("train_rows", len(split.YTrain))
		stepState.SetMetadata("test_rows", len(split.YTest))
	}
	return nil
}

// TrainStep fits the configured model on the training portion
type TrainStep struct {
	BaseStep
	builder *model.Builder
}

// NewTrainStep creates the training step around a model builder
func NewTrainStep(builder *model.Builder) *TrainStep {
	return &TrainStep{
		BaseStep: NewBaseStep(StepIDTrain, StepNameTrain, []string{StepIDSplit}),
		builder:  builder,
	}
}

// Validate requires a train/test split
func (s *TrainStep) Validate(state *OperationState) error {
	if state.Split() == nil {
		return fmt.Errorf("no train/test split available")
	}
	return nil
}

// Execute trains the model via the current strategy
func (s *TrainStep) Execute(ctx context.Context, state *OperationState) error {
	split := state.Split()

	fitted, err := s.builder.Build(split.XTrain, split.YTrain)
	if err != nil {
		return err
	}

	state.SetModel(fitted)
	if stepState := state.GetStep(s.ID()); stepState != nil {
		stepState.SetMetadata("strategy", s.builder.Strategy().Name())
		stepState.SetMetadata("train_rows", len(split.YTrain))
	}
	return nil
}

// EvaluateStep scores the fitted model on the held-out test set
type EvaluateStep struct {
	BaseStep
}

// NewEvaluateStep creates the evaluation step
func NewEvaluateStep() *EvaluateStep {
	return &EvaluateStep{
		BaseStep: NewBaseStep(StepIDEvaluate, StepNameEvaluate, []string{StepIDTrain}),
	}
}

// Validate requires a fitted model and a split
func (s *EvaluateStep) Validate(state *OperationState) error {
	if state.Model() == nil {
		return fmt.Errorf("no fitted model available")
	}
	if state.Split() == nil {
		return fmt.Errorf("no train/test split available")
	}
	return nil
}

// Execute computes test-set metrics
func (s *EvaluateStep) Execute(ctx context.Context, state *OperationState) error {
	split := state.Split()

	eval, err := model.Evaluate(state.Model(), split.XTest, split.YTest)
	if err != nil {
		return err
	}

	state.SetEvaluation(eval)
	if stepState := state.GetStep(s.ID()); stepState != nil {
		stepState.SetMetadata("rmse", eval.RMSE)
		stepState.SetMetadata("r2", eval.R2)
	}

	slog.InfoContext(ctx, "model evaluated",
		slog.Float64("mse", eval.MSE),
		slog.Float64("rmse", eval.RMSE),
		slog.Float64("mae", eval.MAE),
		slog.Float64("r2", eval.R2),
		slog.Int("rows", eval.Rows))
	return nil
}

// ExportStep writes the run report to the reports directory
type ExportStep struct {
	BaseStep
	exporter *exporter.ReportExporter
}

// NewExportStep creates the report export step
func NewExportStep(reportExporter *exporter.ReportExporter) *ExportStep {
	return &ExportStep{
		BaseStep: NewBaseStep(StepIDExport, StepNameExport, []string{StepIDEvaluate}),
		exporter: reportExporter,
	}
}

// Validate requires an evaluation
func (s *ExportStep) Validate(state *OperationState) error {
	if state.Evaluation() == nil {
		return fmt.Errorf("no evaluation available")
	}
	return nil
}

// Execute builds the run report and writes it to disk
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	split := state.Split()

	report := &exporter.RunReport{
		OperationID:  state.ID,
		ArchivePath:  state.ArchivePath(),
		TargetColumn: state.TargetColumn(),
		GeneratedAt:  time.Now(),
		Evaluation:   state.Evaluation(),
	}
	if split != nil {
		report.TrainRows = len(split.YTrain)
		report.TestRows = len(split.YTest)
		report.FeatureNames = split.FeatureNames
	}
	for _, id := range []string{StepIDIngest, StepIDOutliers, StepIDMissing, StepIDSplit, StepIDTrain, StepIDEvaluate} {
		if stepState := state.GetStep(id); stepState != nil {
			report.Steps = append(report.Steps, exporter.StepSummary{
				ID:       stepState.ID,
				Name:     stepState.Name,
				Status:   string(stepState.GetStatus()),
				Duration: stepState.Duration(),
				Message:  stepState.Message,
			})
		}
	}

	path, err := s.exporter.Export(report)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyReportPath, path)
	return nil
}

// RegisterPipeline registers the full pipeline in execution order
func RegisterPipeline(registry *Registry, cfg *config.Config, paths *config.Paths, metrics *Metrics) error {
	factory := ingest.NewFactory(paths)

	builder := model.NewBuilder(model.NewGradientBoostingStrategy(model.BoostingParams{
		Iterations:     cfg.Pipeline.Boosting.Iterations,
		LearningRate:   cfg.Pipeline.Boosting.LearningRate,
		MaxDepth:       cfg.Pipeline.Boosting.MaxDepth,
		MaxBins:        cfg.Pipeline.Boosting.MaxBins,
		MinSamplesLeaf: cfg.Pipeline.Boosting.MinSamplesLeaf,
	}))

	steps := []Step{
		NewIngestStep(factory, metrics),
		NewOutlierStep(cfg.Pipeline.OutlierFence),
		NewMissingValueStep(cfg.Pipeline.MissingThreshold),
		NewSplitStep(cfg.Pipeline),
		NewTrainStep(builder),
		NewEvaluateStep(),
		NewExportStep(exporter.NewReportExporter(paths)),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return err
		}
	}
	return nil
}

func requireTable(state *OperationState) error {
	if state.Table() == nil {
		return fmt.Errorf("no table loaded")
	}
	return nil
}
