// Package handlers provides HTTP request handlers for the posologie API
// endpoints. It includes the regimen calculation handler, formulary lookup,
// health checks, and response formatting with input validation.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/posologie-api/formularyparser/entities"
	"github.com/giygas/posologie-api/interfaces"
	"github.com/giygas/posologie-api/logging"
	"github.com/giygas/posologie-api/metrics"
	"github.com/giygas/posologie-api/posologie"
)

// HTTPHandlerImpl bundles the injected dependencies for all endpoints
type HTTPHandlerImpl struct {
	store         interfaces.FormularyStore
	validator     interfaces.RequestValidator
	solver        interfaces.RegimenSolver
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	store interfaces.FormularyStore,
	validator interfaces.RequestValidator,
	solver interfaces.RegimenSolver,
	healthChecker interfaces.HealthChecker,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:         store,
		validator:     validator,
		solver:        solver,
		healthChecker: healthChecker,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// CalculateRequest is the request body for POST /calculer. Either the
// medication name or an explicit available_pills list must be provided;
// when a known medication is named its catalog strengths fill the gaps.
type CalculateRequest struct {
	Medication           string  `json:"medication,omitempty"`
	WeeklyDose           float64 `json:"weekly_dose"`
	AllowHalf            *bool   `json:"allow_half,omitempty"`
	AvailablePills       []int   `json:"available_pills,omitempty"`
	SpecialDayPattern    string  `json:"special_day_pattern,omitempty"`
	DaysUntilAppointment int     `json:"days_until_appointment,omitempty"`
	StartDayOfWeek       int     `json:"start_day_of_week,omitempty"`
}

// CalculateResponse is the response body for POST /calculer. Options is
// empty (never null) when no regimen reaches the target dose.
type CalculateResponse struct {
	Medication string                  `json:"medication,omitempty"`
	WeeklyDose float64                 `json:"weekly_dose"`
	Options    []posologie.FinalOutput `json:"options"`
}

// Calculate computes ranked weekly dosing regimens
func (h *HTTPHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	in := posologie.CalculationInput{
		WeeklyDose:           req.WeeklyDose,
		AvailablePills:       req.AvailablePills,
		SpecialDayPattern:    posologie.DayPattern(req.SpecialDayPattern),
		DaysUntilAppointment: req.DaysUntilAppointment,
		StartDayOfWeek:       req.StartDayOfWeek,
	}
	if req.AllowHalf != nil {
		in.AllowHalf = *req.AllowHalf
	}

	// A named medication fills in its catalog strengths and halvability
	if req.Medication != "" {
		name, err := h.validator.ValidateMedicationName(req.Medication)
		if err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		med, exists := h.store.GetMedicationsMap()[name]
		if !exists {
			h.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Medication %q not found in formulary", req.Medication))
			return
		}

		if len(in.AvailablePills) == 0 {
			in.AvailablePills = append([]int(nil), med.Strengths...)
		}
		if req.AllowHalf == nil {
			in.AllowHalf = med.Halvable
		}
	}

	start := time.Now()
	options, err := h.solver.Solve(in)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		if errors.Is(err, posologie.ErrInvalidInput) {
			metrics.ObserveSolve(metrics.OutcomeInvalid, elapsed, 0)
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		metrics.ObserveSolve(metrics.OutcomeInvalid, elapsed, 0)
		logging.Error("Regimen calculation failed", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Calculation failed")
		return
	}

	if len(options) == 0 {
		metrics.ObserveSolve(metrics.OutcomeInfeasible, elapsed, 0)
		logging.Info("No feasible regimen",
			"weekly_dose", req.WeeklyDose,
			"medication", req.Medication)
	} else {
		metrics.ObserveSolve(metrics.OutcomeOK, elapsed, len(options))
	}

	response := CalculateResponse{
		Medication: req.Medication,
		WeeklyDose: req.WeeklyDose,
		Options:    options,
	}
	if response.Options == nil {
		response.Options = []posologie.FinalOutput{}
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// ListFormulary returns the full medication catalog
func (h *HTTPHandlerImpl) ListFormulary(w http.ResponseWriter, r *http.Request) {
	medications := h.store.GetMedications()
	h.RespondWithJSON(w, http.StatusOK, medications)
}

// FindMedication searches the formulary by name (case-insensitive partial match)
func (h *HTTPHandlerImpl) FindMedication(w http.ResponseWriter, r *http.Request) {
	nom := chi.URLParam(r, "nom")
	if nom == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing medication name")
		return
	}

	name, err := h.validator.ValidateMedicationName(nom)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	medications := h.store.GetMedications()
	var results []entities.Medication

	for _, med := range medications {
		if strings.Contains(strings.ToLower(med.Name), name) {
			results = append(results, med)
		}
	}

	if len(results) == 0 {
		h.RespondWithError(w, http.StatusNotFound, "No medications found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, results)
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string                 `json:"status"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Data          map[string]interface{} `json:"data"`
	System        map[string]interface{} `json:"system"`
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.store.GetServerStartTime())

	status, details, httpStatus := h.healthChecker.HealthCheck()
	details["next_refresh"] = h.healthChecker.CalculateNextRefresh().Format(time.RFC3339)

	response := HealthResponse{
		Status:        status,
		UptimeSeconds: uptime.Seconds(),
		Data:          details,
		System: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
