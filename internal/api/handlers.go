package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/valens-periods/internal/config"
	"github.com/zapponejosh/valens-periods/internal/logger"
	"github.com/zapponejosh/valens-periods/internal/periods"
	"github.com/zapponejosh/valens-periods/internal/session"
)

// maxBodyBytes bounds chart request bodies.
const maxBodyBytes = 64 << 10

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	store   session.Store
	tables  periods.Tables
	cfg     *config.Config
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store session.Store, tables periods.Tables, cfg *config.Config, logger *slog.Logger, metrics *Metrics) *Handlers {
	return &Handlers{
		store:   store,
		tables:  tables,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// calculateRequest is a chart plus the age to look up.
type calculateRequest struct {
	periods.RawChart
	Age *float64 `json:"age"`
}

// ChartResponse is returned when a chart session is created or fetched.
type ChartResponse struct {
	SessionID string          `json:"session_id"`
	ExpiresAt time.Time       `json:"expires_at"`
	Report    *periods.Report `json:"report"`
}

// ActiveResponse is returned by the age lookup.
type ActiveResponse struct {
	SessionID  string                  `json:"session_id"`
	Active     *periods.ActivePeriod   `json:"active"`
	Subperiods *periods.SubperiodTable `json:"subperiods"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Health(r.Context()); err != nil {
		h.log(r).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Session store unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// CreateChart handles POST /api/v1/charts
//
// Computes the three cycles and stores them in a new session.
func (h *Handlers) CreateChart(w http.ResponseWriter, r *http.Request) {
	var req periods.RawChart
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	cycles, ok := h.computeCycles(w, r, req)
	if !ok {
		return
	}

	s := session.New(cycles, h.now(), h.cfg.SessionTTL)
	if err := h.store.Save(r.Context(), s); err != nil {
		h.log(r).Error("failed to save session", slog.Any("error", err))
		WriteInternalError(w, "Failed to store chart")
		return
	}
	h.metrics.recordSession()

	report, err := periods.BuildReport(h.tables, cycles, nil)
	if err != nil {
		h.log(r).Error("failed to build report", slog.Any("error", err))
		WriteInternalError(w, "Failed to build report")
		return
	}

	h.log(r).Info("chart session created",
		slog.String("session_id", s.ID),
		slog.String("afeta", string(cycles.Afeta)),
	)

	WriteJSON(w, http.StatusCreated, Response{
		Success: true,
		Data: ChartResponse{
			SessionID: s.ID,
			ExpiresAt: s.ExpiresAt,
			Report:    report,
		},
	})
}

// GetChart handles GET /api/v1/charts/{sessionID}
func (h *Handlers) GetChart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	report, err := periods.BuildReport(h.tables, s.Cycles, nil)
	if err != nil {
		h.log(r).Error("failed to build report", slog.Any("error", err))
		WriteInternalError(w, "Failed to build report")
		return
	}

	WriteSuccess(w, ChartResponse{
		SessionID: s.ID,
		ExpiresAt: s.ExpiresAt,
		Report:    report,
	})
}

// GetActive handles GET /api/v1/charts/{sessionID}/active?age=X
func (h *Handlers) GetActive(w http.ResponseWriter, r *http.Request) {
	age, err := h.parseAge(r.URL.Query().Get("age"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_AGE")
		return
	}

	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	report, err := periods.BuildReport(h.tables, s.Cycles, &age)
	if err != nil {
		h.log(r).Error("failed to resolve active period", slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve active period")
		return
	}
	h.metrics.recordActiveLookup(report.Active.CycleNumber)

	WriteSuccess(w, ActiveResponse{
		SessionID:  s.ID,
		Active:     report.Active,
		Subperiods: report.Subperiods,
	})
}

// DeleteChart handles DELETE /api/v1/charts/{sessionID}
func (h *Handlers) DeleteChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !session.ValidID(id) {
		WriteNotFound(w, "Chart session not found")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if session.IsNotFound(err) {
			WriteNotFound(w, "Chart session not found")
			return
		}
		h.log(r).Error("failed to delete session", slog.Any("error", err))
		WriteInternalError(w, "Failed to delete chart")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Chart session deleted"})
}

// Calculate handles POST /api/v1/calculate
//
// Stateless: returns the full report for the chart and optional age, and
// stores nothing.
func (h *Handlers) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if req.Age != nil {
		if err := h.checkAge(*req.Age); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_AGE")
			return
		}
	}

	cycles, ok := h.computeCycles(w, r, req.RawChart)
	if !ok {
		return
	}

	report, err := periods.BuildReport(h.tables, cycles, req.Age)
	if err != nil {
		h.log(r).Error("failed to build report", slog.Any("error", err))
		WriteInternalError(w, "Failed to build report")
		return
	}
	if report.Active != nil {
		h.metrics.recordActiveLookup(report.Active.CycleNumber)
	}

	WriteSuccess(w, report)
}

// computeCycles validates the chart and builds its cycles. On failure it
// has already written the response.
func (h *Handlers) computeCycles(w http.ResponseWriter, r *http.Request, raw periods.RawChart) (*periods.Cycles, bool) {
	chart, err := raw.Parse()
	var cycles *periods.Cycles
	if err == nil {
		cycles, err = periods.ComputeChart(h.tables, chart)
	}
	if err == nil {
		h.metrics.recordCalculation(outcomeOK)
		return cycles, true
	}

	if periods.IsValidation(err) {
		h.metrics.recordCalculation(outcomeInvalid)
		var ve *periods.ValidationError
		errors.As(err, &ve)
		h.log(r).Debug("chart validation failed",
			slog.String("field", ve.Field),
			slog.Any("error", ve.Err),
		)
		WriteValidationFailed(w)
		return nil, false
	}

	h.metrics.recordCalculation(outcomeError)
	h.log(r).Error("failed to compute cycles", slog.Any("error", err))
	WriteInternalError(w, "Failed to compute cycles")
	return nil, false
}

// loadSession fetches the session named in the URL. On failure it has
// already written the response.
func (h *Handlers) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	if !session.ValidID(id) {
		WriteNotFound(w, "Chart session not found")
		return nil, false
	}

	s, err := h.store.Get(r.Context(), id)
	if err != nil {
		if session.IsNotFound(err) {
			WriteNotFound(w, "Chart session not found")
			return nil, false
		}
		h.log(r).Error("failed to load session", slog.String("session_id", id), slog.Any("error", err))
		WriteInternalError(w, "Failed to load chart")
		return nil, false
	}
	return s, true
}

// parseAge reads the age query parameter.
func (h *Handlers) parseAge(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("age parameter is required")
	}
	age, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid age: %s", raw)
	}
	if err := h.checkAge(age); err != nil {
		return 0, err
	}
	return age, nil
}

func (h *Handlers) checkAge(age float64) error {
	if math.IsNaN(age) || age < 0 || age > h.cfg.MaxAge {
		return fmt.Errorf("age must be between 0 and %g", h.cfg.MaxAge)
	}
	return nil
}

func (h *Handlers) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

// decodeJSON decodes a bounded JSON request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
