package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "housingml/internal/errors"
	"housingml/internal/infrastructure"
	"housingml/internal/operations"
)

// OperationService is the slice of the pipeline manager the handler needs
type OperationService interface {
	Execute(ctx context.Context, req operations.OperationRequest) (*operations.OperationResponse, error)
	GetOperation(id string) (*operations.OperationSnapshot, error)
}

// OperationsHandler handles pipeline run requests
type OperationsHandler struct {
	service  OperationService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewOperationsHandler creates the operations handler
func NewOperationsHandler(service OperationService, logger *slog.Logger) *OperationsHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsHandler{
		service:  service,
		logger:   logger.With(slog.String("handler", "operations")),
		validate: validator.New(),
	}
}

// StartOperationRequest is the body of POST /api/v1/operations
type StartOperationRequest struct {
	ArchivePath  string `json:"archive_path" validate:"required"`
	TargetColumn string `json:"target_column,omitempty"`
	Step         string `json:"step,omitempty"`
}

// Bind implements render.Binder
func (r *StartOperationRequest) Bind(req *http.Request) error {
	if r.ArchivePath == "" {
		return fmt.Errorf("archive_path is required")
	}
	return nil
}

// StartOperationResponse is the 202 body returned for accepted runs
type StartOperationResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Render implements render.Renderer
func (r *StartOperationResponse) Render(w http.ResponseWriter, req *http.Request) error {
	render.Status(req, http.StatusAccepted)
	return nil
}

// Routes returns the chi router for operation endpoints
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.StartOperation)
	r.Get("/{id}", h.GetOperation)
	return r
}

// StartOperation handles POST /api/v1/operations. The run executes in the
// background; clients follow progress via GET or the WebSocket stream.
func (h *OperationsHandler) StartOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body StartOperationRequest
	if err := render.Bind(r, &body); err != nil {
		h.logger.WarnContext(ctx, "invalid operation request",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.NewAPIError(http.StatusBadRequest, "INVALID_REQUEST", err.Error())))
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidationFailed))
		return
	}

	// Reject runs that cannot possibly start before accepting them
	if _, err := os.Stat(body.ArchivePath); err != nil {
		h.logger.WarnContext(ctx, "archive not found",
			slog.String("archive", body.ArchivePath))
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.FromDomain(apierrors.NewArchiveMissing(body.ArchivePath))))
		return
	}

	operationID := uuid.New().String()
	traceID := infrastructure.GetTraceID(ctx)

	h.logger.InfoContext(ctx, "operation accepted",
		slog.String("operation_id", operationID),
		slog.String("archive", body.ArchivePath))

	// Detach from the request context; the run outlives the request
	go func() {
		runCtx := infrastructure.WithTraceID(context.Background(), traceID)
		_, err := h.service.Execute(runCtx, operations.OperationRequest{
			ID:           operationID,
			ArchivePath:  body.ArchivePath,
			TargetColumn: body.TargetColumn,
			Step:         body.Step,
		})
		if err != nil {
			h.logger.ErrorContext(runCtx, "operation failed",
				slog.String("operation_id", operationID),
				slog.String("error", err.Error()))
		}
	}()

	w.Header().Set("Location", fmt.Sprintf("/api/v1/operations/%s", operationID))
	render.Render(w, r, &StartOperationResponse{
		ID:     operationID,
		Status: string(operations.OperationStatusPending),
	})
}

// GetOperation handles GET /api/v1/operations/{id}
func (h *OperationsHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := h.service.GetOperation(id)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrOperationNotFound))
		return
	}

	render.JSON(w, r, snapshot)
}
