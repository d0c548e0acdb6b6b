package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alem-hub/attendance-tracker/internal/domain/attendance"
	"github.com/alem-hub/attendance-tracker/internal/domain/shared"
	"github.com/alem-hub/attendance-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":    "Attendance Tracker API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":   "/health",
			"students": "/api/v1/students",
			"date":     "/api/v1/date",
			"stats":    "/api/v1/stats",
			"history":  "/api/v1/history",
			"export":   "/api/v1/export",
		},
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, r, http.StatusOK, status)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": s.config.Version,
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODIES
// ══════════════════════════════════════════════════════════════════════════════

// Emptiness and uniqueness of names are checked by the store so the user
// sees the same messages whatever the entry point; the tags only bound size
// and shape.
type addStudentRequest struct {
	Name   string `json:"name" validate:"max=200"`
	RollNo string `json:"rollNo" validate:"max=50"`
}

type markRequest struct {
	Status string `json:"status" validate:"required,oneof=present absent"`
}

type setDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeBody decodes and validates a JSON body. It writes the error
// response itself and reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeJSONError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
		case errors.Is(err, io.EOF):
			writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "Request body is required")
		default:
			writeJSONErrorWithDetails(w, r, http.StatusBadRequest, "invalid_request", "Request body is not valid JSON", err.Error())
		}
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
			}
			writeJSONErrorWithDetails(w, r, http.StatusBadRequest, "validation_error", "Request failed validation", strings.Join(details, "; "))
			return false
		}
		writeJSONError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps tracker errors to HTTP responses. Empty operations
// are notices, not failures, and get 422 so clients can show them as such.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	message := err.Error()
	var de *shared.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}

	switch {
	case errors.Is(err, shared.ErrPersistFailed), errors.Is(err, shared.ErrStorage):
		logger.FromContext(r.Context()).Error("storage failure", logger.Operation(op), logger.Err(err))
		writeJSONError(w, r, http.StatusInternalServerError, "storage_error",
			"The change was applied but could not be saved")
	case shared.IsEmptyOperation(err):
		writeJSONError(w, r, http.StatusUnprocessableEntity, "nothing_to_do", message)
	case shared.IsAlreadyExists(err):
		writeJSONError(w, r, http.StatusConflict, "already_exists", message)
	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, "not_found", message)
	case shared.IsValidation(err):
		writeJSONError(w, r, http.StatusBadRequest, "validation_error", message)
	default:
		logger.FromContext(r.Context()).Error("request failed", logger.Operation(op), logger.Err(err))
		writeJSONError(w, r, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// studentResponse is a student with their full attendance record.
type studentResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	RollNo     string            `json:"rollNo"`
	Attendance map[string]string `json:"attendance"`
}

func toStudentResponse(st attendance.Student) studentResponse {
	att := make(map[string]string, len(st.Attendance))
	for date, status := range st.Attendance {
		att[date] = string(status)
	}
	return studentResponse{ID: st.ID, Name: st.Name, RollNo: st.RollNo, Attendance: att}
}

// handleListStudents handles GET /api/v1/students
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	view := s.deps.Tracker.Roster()
	writeJSONWithMeta(w, r, http.StatusOK, view, &ResponseMeta{TotalCount: len(view.Students)})
}

// handleAddStudent handles POST /api/v1/students
func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req addStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := s.deps.Tracker.AddStudent(r.Context(), req.Name, req.RollNo)
	if err != nil {
		s.writeDomainError(w, r, "AddStudent", err)
		return
	}
	w.Header().Set("Location", "/api/v1/students/"+st.ID)
	writeJSON(w, r, http.StatusCreated, toStudentResponse(st))
}

// handleGetStudent handles GET /api/v1/students/{id}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	st, ok := s.deps.Tracker.Student(r.PathValue("id"))
	if !ok {
		s.writeDomainError(w, r, "GetStudent", shared.ErrStudentNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, toStudentResponse(st))
}

// handleRemoveStudent handles DELETE /api/v1/students/{id}. Removing an
// unknown id succeeds with removed=false.
func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	removed, err := s.deps.Tracker.RemoveStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, "RemoveStudent", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"removed": removed})
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleMark handles PUT /api/v1/students/{id}/attendance
func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := s.deps.Tracker.Mark(r.Context(), r.PathValue("id"), attendance.Status(req.Status))
	if err != nil {
		s.writeDomainError(w, r, "Mark", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStudentResponse(st))
}

// handleMarkAll handles POST /api/v1/attendance/mark-all
func (s *Server) handleMarkAll(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := s.deps.Tracker.MarkAll(r.Context(), attendance.Status(req.Status))
	if err != nil {
		s.writeDomainError(w, r, "MarkAll", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"marked": n,
		"status": req.Status,
		"stats":  s.deps.Tracker.Stats(),
	})
}

// handleClear handles DELETE /api/v1/attendance
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Tracker.ClearCurrentDate(r.Context()); err != nil {
		s.writeDomainError(w, r, "ClearCurrentDate", err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.deps.Tracker.Stats())
}

// handleGetDate handles GET /api/v1/date
func (s *Server) handleGetDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.Tracker.CurrentDate())
}

// handleSetDate handles PUT /api/v1/date
func (s *Server) handleSetDate(w http.ResponseWriter, r *http.Request) {
	var req setDateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.deps.Tracker.SetCurrentDate(r.Context(), req.Date); err != nil {
		s.writeDomainError(w, r, "SetCurrentDate", err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.deps.Tracker.CurrentDate())
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW, EXPORT AND RESET HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleStats handles GET /api/v1/stats?date=YYYY-MM-DD. Without a date the
// current date is used.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, r, http.StatusOK, s.deps.Tracker.Stats())
		return
	}
	stats, err := s.deps.Tracker.StatsFor(date)
	if err != nil {
		s.writeDomainError(w, r, "Stats", err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// handleHistory handles GET /api/v1/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	view := s.deps.Tracker.History()
	writeJSONWithMeta(w, r, http.StatusOK, view, &ResponseMeta{TotalCount: len(view.Days)})
}

// handleExport handles GET /api/v1/export and serves the CSV report as a
// download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Tracker.Export(r.Context())
	if err != nil {
		s.writeDomainError(w, r, "Export", err)
		return
	}
	w.Header().Set("Content-Type", rep.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.Body)
}

// handleReset handles DELETE /api/v1/data
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Tracker.Reset(r.Context()); err != nil {
		s.writeDomainError(w, r, "Reset", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "All data has been reset"})
}
