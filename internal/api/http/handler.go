package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/veranemoloko/route-uploader/internal/domain"
	errpkg "github.com/veranemoloko/route-uploader/internal/errors"
	"github.com/veranemoloko/route-uploader/internal/presenter"
	"github.com/veranemoloko/route-uploader/internal/repository"
	"github.com/veranemoloko/route-uploader/internal/validation"
)

// CoordinatorI defines the upload coordinator operations the API needs.
type CoordinatorI interface {
	OnTargetChange(target *domain.UploadTarget)
	Target() *domain.UploadTarget
	Snapshot() map[domain.Category]domain.TaskState
	Dispatch(category domain.Category) error
}

// UploadHandler handles HTTP requests for routes, the upload target and buttons.
type UploadHandler struct {
	coordinator CoordinatorI
	routes      repository.RouteRepo
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(coordinator CoordinatorI, routes repository.RouteRepo, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		coordinator: coordinator,
		routes:      routes,
		validator:   validation.New(),
		logger:      logger,
	}
}

// SaveRoute handles POST /routes.
func (h *UploadHandler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	route := &domain.UploadTarget{Name: req.Name, MaxSegment: *req.MaxSegment}
	if err := h.routes.SaveRoute(r.Context(), route); err != nil {
		h.logger.Error("failed to save route", "route", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, route)
}

// ListRoutes handles GET /routes.
func (h *UploadHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.routes.ListRoutes(r.Context())
	if err != nil {
		h.logger.Error("failed to list routes", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, routes)
}

// GetRoute handles GET /routes/{name}.
func (h *UploadHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := validation.ValidateRouteName(name); err != nil {
		writeError(w, http.StatusBadRequest, "invalid route name")
		return
	}

	route, err := h.routes.GetRoute(r.Context(), name)
	if errors.Is(err, errpkg.ErrRouteNotFound) {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get route", "route", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, route)
}

// SelectTarget handles PUT /target.
func (h *UploadHandler) SelectTarget(w http.ResponseWriter, r *http.Request) {
	var req domain.SelectTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.routes.GetRoute(r.Context(), req.Name)
	if errors.Is(err, errpkg.ErrRouteNotFound) {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get route", "route", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.coordinator.OnTargetChange(route)
	writeJSON(w, http.StatusOK, route)
}

// ClearTarget handles DELETE /target.
func (h *UploadHandler) ClearTarget(w http.ResponseWriter, r *http.Request) {
	h.coordinator.OnTargetChange(nil)
	w.WriteHeader(http.StatusNoContent)
}

// GetTarget handles GET /target.
func (h *UploadHandler) GetTarget(w http.ResponseWriter, r *http.Request) {
	target := h.coordinator.Target()
	if target == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// ListButtons handles GET /buttons.
func (h *UploadHandler) ListButtons(w http.ResponseWriter, r *http.Request) {
	buttons := presenter.RenderAll(h.coordinator.Snapshot())

	response := make([]domain.ButtonResponse, 0, len(buttons))
	for _, b := range buttons {
		response = append(response, b.Response())
	}
	writeJSON(w, http.StatusOK, response)
}

// ClickButton handles POST /buttons/{category}/click.
func (h *UploadHandler) ClickButton(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, ok := presenter.ConfigFor(category)
	if !ok {
		writeError(w, http.StatusNotFound, "button not found")
		return
	}

	state, ok := h.coordinator.Snapshot()[category]
	if !ok {
		state = domain.TaskStateIdle
	}

	button := presenter.Render(state, cfg)
	dispatched, err := presenter.Click(button, h.coordinator)
	if errors.Is(err, errpkg.ErrShuttingDown) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to dispatch click", "category", category, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Debug("button clicked", "category", category, "dispatched", dispatched)
	writeJSON(w, http.StatusAccepted, domain.ClickResponse{
		Dispatched: dispatched,
		Button:     button.Response(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
