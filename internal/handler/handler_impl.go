// Package handler provides HTTP request handlers for the application.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/middleware"
	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/queue"
	"github.com/gestorvip/fila/internal/scheduler"
	"github.com/gestorvip/fila/internal/service"
)

const (
	errorCodeInvalidBody             = "INVALID_BODY"
	errorCodePhoneTooShort           = "PHONE_TOO_SHORT"
	errorCodeDuplicatePhone          = "DUPLICATE_PHONE"
	errorCodeIboNotUpdated           = "IBO_NOT_UPDATED"
	errorCodeClientNotFound          = "CLIENT_NOT_FOUND"
	errorCodeSchedulerAlreadyRunning = "SCHEDULER_ALREADY_RUNNING"
	errorCodeSchedulerNotRunning     = "SCHEDULER_NOT_RUNNING"
)

const maxImportBytes = 4 << 20

type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler instance.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CreateClient handles POST /clients.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req AddClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidBody, "Request body must be valid JSON")
		return
	}

	client, err := h.service.Clients.Add(r.Context(), service.AddClientInput{
		Name:             req.Name,
		Phone:            req.Phone,
		ReplaceDuplicate: req.ReplaceDuplicate,
		TestDurationMs:   req.TestDurationMs,
	})
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrPhoneTooShort):
			h.sendError(w, r, http.StatusBadRequest, errorCodePhoneTooShort, "Phone number has too few digits")
		case errors.Is(err, queue.ErrDuplicatePhone):
			h.sendError(w, r, http.StatusConflict, errorCodeDuplicatePhone, "Phone number already registered; resend with replace_duplicate to confirm replacement")
		default:
			h.internalError(w, r, "Failed to add client", err)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, client)
}

// ListClients handles GET /clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Clients.List(r.Context(), listInputFromQuery(r))
	if err != nil {
		h.internalError(w, r, "Failed to list clients", err)
		return
	}

	render.JSON(w, r, result)
}

// CallClient handles POST /clients/{id}/call. Unknown ids are no-ops.
func (h *Handler) CallClient(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clients.MarkCalled(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.internalError(w, r, "Failed to mark client as called", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteClient handles DELETE /clients/{id}.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	err := h.service.Clients.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, queue.ErrIboNotUpdated) {
			h.sendError(w, r, http.StatusConflict, errorCodeIboNotUpdated, "Set the IBO flag before deleting this client")
			return
		}
		h.internalError(w, r, "Failed to remove client", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateIbo handles PUT /clients/{id}/ibo.
func (h *Handler) UpdateIbo(w http.ResponseWriter, r *http.Request) {
	var req UpdateIboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidBody, "Request body must be valid JSON")
		return
	}

	if err := h.service.Clients.SetIboUpdated(r.Context(), chi.URLParam(r, "id"), req.Updated); err != nil {
		h.internalError(w, r, "Failed to update IBO flag", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// WhatsAppLink handles GET /clients/{id}/whatsapp-link.
func (h *Handler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	native := r.URL.Query().Get("native") == "true"

	link, err := h.service.Clients.WhatsAppLink(r.Context(), chi.URLParam(r, "id"), native)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			h.sendError(w, r, http.StatusNotFound, errorCodeClientNotFound, "No client with that id")
			return
		}
		h.internalError(w, r, "Failed to build WhatsApp link", err)
		return
	}

	render.JSON(w, r, LinkResponse{URL: link})
}

// ExportClients handles GET /clients/export and streams a CSV attachment.
func (h *Handler) ExportClients(w http.ResponseWriter, r *http.Request) {
	filename, content, err := h.service.Export.ExportCSV(r.Context(), listInputFromQuery(r))
	if err != nil {
		h.internalError(w, r, "Failed to export clients", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(content))
}

// ImportClients handles POST /clients/import with a raw CSV body.
func (h *Handler) ImportClients(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidBody, "Failed to read request body")
		return
	}

	result, err := h.service.Export.ImportCSV(r.Context(), string(body))
	if err != nil {
		h.internalError(w, r, "Failed to import clients", err)
		return
	}

	render.JSON(w, r, result)
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Settings.Get(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to load settings", err)
		return
	}

	render.JSON(w, r, SettingsPayload{WhatsappMessage: settings.WhatsappMessage})
}

// UpdateSettings handles PUT /settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidBody, "Request body must be valid JSON")
		return
	}

	if err := h.service.Settings.Update(r.Context(), models.Settings{WhatsappMessage: req.WhatsappMessage}); err != nil {
		h.internalError(w, r, "Failed to save settings", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StartScheduler handles POST /scheduler/start.
func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Scheduler.Start(); err != nil {
		if errors.Is(err, scheduler.ErrSchedulerAlreadyRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeSchedulerAlreadyRunning, "Scheduler is already running")
			return
		}
		h.internalError(w, r, "Failed to start scheduler", err)
		return
	}

	render.JSON(w, r, SchedulerResponse{
		Status:  "started",
		Message: "Scheduler started successfully",
	})
}

// StopScheduler handles POST /scheduler/stop.
func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Scheduler.Stop(); err != nil {
		if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			h.sendError(w, r, http.StatusConflict, errorCodeSchedulerNotRunning, "Scheduler is not running")
			return
		}
		h.internalError(w, r, "Failed to stop scheduler", err)
		return
	}

	render.JSON(w, r, SchedulerResponse{
		Status:  "stopped",
		Message: "Scheduler stopped successfully",
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth(r.Context())

	if health.Status == service.HealthStatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, struct {
		*service.HealthStatus
		Timestamp time.Time `json:"timestamp"`
	}{health, time.Now()})
}

func listInputFromQuery(r *http.Request) service.ListInput {
	q := r.URL.Query()

	filters := queue.Filters{
		Period: queue.Period(q.Get("period")),
	}

	if month, err := strconv.Atoi(q.Get("month")); err == nil && month >= 1 && month <= 12 {
		filters.Month = month
	}
	if year, err := strconv.Atoi(q.Get("year")); err == nil && year > 0 {
		filters.Year = year
	}
	if q.Get("sort") == string(queue.SortOldest) {
		filters.Sort = queue.SortOldest
	} else {
		filters.Sort = queue.SortNewest
	}

	return service.ListInput{
		Status:  models.Status(q.Get("status")),
		Filters: filters,
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.Error(message,
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Error(err))
	h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, message)
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	})
}
