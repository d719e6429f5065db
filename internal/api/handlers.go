package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"arch-agent/internal/application/port/input"
	"arch-agent/internal/application/port/output"
	"arch-agent/internal/application/service"
	"arch-agent/internal/domain/entity"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Handler exposes the generation pipeline and the solution store over HTTP.
type Handler struct {
	generator input.GenerationService
	solutions output.SolutionStore
	logger    output.LoggerPort
}

func NewHandler(generator input.GenerationService, solutions output.SolutionStore, logger output.LoggerPort) *Handler {
	return &Handler{
		generator: generator,
		solutions: solutions,
		logger:    logger,
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type generateRequest struct {
	Requirements string `json:"requirements"`
}

// solutionRequest is the writable subset of a saved solution; ids and
// timestamps are assigned by the store.
type solutionRequest struct {
	Title        string                    `json:"title"`
	Description  string                    `json:"description"`
	Requirements string                    `json:"requirementsText"`
	Tags         []string                  `json:"tags"`
	Result       entity.ArchitectureResult `json:"result"`
}

func (s solutionRequest) toEntity() *entity.SavedSolution {
	return &entity.SavedSolution{
		Title:        s.Title,
		Description:  s.Description,
		Requirements: s.Requirements,
		Tags:         s.Tags,
		Result:       s.Result,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "initializing"
	if h.generator.Ready() {
		status = "live"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": Version,
	})
}

// Generate runs the full pipeline synchronously and returns the complete
// result. Stage failures inside the pipeline degrade to fallbacks, so a
// non-nil error here means the request never started.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	result, err := h.generator.Generate(r.Context(), req.Requirements)
	if err != nil {
		h.logger.Error("Generation request failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    result,
		Message: fmt.Sprintf("Architecture generated. Estimated cost: %s per month", result.Pricing.FormattedMonthly()),
	})
}

// GenerateAsync submits the pipeline to its own goroutine and returns a
// task id the client polls via TaskStatus.
func (h *Handler) GenerateAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	taskID, err := h.generator.Submit(req.Requirements)
	if err != nil {
		h.logger.Error("Task submission failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"taskId": taskID})
}

func (h *Handler) TaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := h.generator.Task(chi.URLParam(r, "taskID"))
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) CreateSolution(w http.ResponseWriter, r *http.Request) {
	var solution solutionRequest
	if err := json.NewDecoder(r.Body).Decode(&solution); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(solution.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	record := solution.toEntity()
	if err := h.solutions.Create(r.Context(), record); err != nil {
		h.logger.Error("Solution save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save solution")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: record})
}

func (h *Handler) ListSolutions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	tag := r.URL.Query().Get("tag")

	list, err := h.solutions.List(r.Context(), query, tag)
	if err != nil {
		h.logger.Error("Solution listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list solutions")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: list})
}

func (h *Handler) GetSolution(w http.ResponseWriter, r *http.Request) {
	solution, err := h.solutions.Get(r.Context(), chi.URLParam(r, "solutionID"))
	if err != nil {
		if errors.Is(err, output.ErrSolutionNotFound) {
			writeError(w, http.StatusNotFound, "solution not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: solution})
}

func (h *Handler) DeleteSolution(w http.ResponseWriter, r *http.Request) {
	if err := h.solutions.Delete(r.Context(), chi.URLParam(r, "solutionID")); err != nil {
		if errors.Is(err, output.ErrSolutionNotFound) {
			writeError(w, http.StatusNotFound, "solution not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "solution deleted"})
}

func (h *Handler) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, bool) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if strings.TrimSpace(req.Requirements) == "" {
		writeError(w, http.StatusBadRequest, "requirements must not be empty")
		return req, false
	}
	if !h.generator.Ready() {
		writeError(w, http.StatusServiceUnavailable, "service is still initializing")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}
