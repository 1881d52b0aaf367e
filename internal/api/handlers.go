// Package api provides HTTP handlers for StudyPlanner endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BTreeMap/StudyPlanner/internal/models"
)

// HomeMessage is the liveness text served on "/".
const HomeMessage = "AI Study Planner Backend Running"

// homeHandler handles GET /
func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeTextResponse(w, http.StatusOK, HomeMessage)
}

// generatePlanHandler handles POST /api/generate-plan.
// The response is always 200: degraded plans are indistinguishable from live ones.
func (s *Server) generatePlanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.generatePlanHandler: processing plan request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		slog.Warn("Server.generatePlanHandler: method not allowed", "method", r.Method)
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req models.StudyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.generatePlanHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	slog.Debug("Server.generatePlanHandler: parsed request",
		"syllabus_set", !req.Syllabus.IsAbsent(),
		"hours_set", !req.Hours.IsAbsent(),
		"weak_subjects_set", !req.WeakSubjects.IsAbsent())

	plan, outcome := s.planner.GenerateStudyPlan(r.Context(), req)
	if outcome.Degraded() {
		slog.Info("Server.generatePlanHandler: serving fallback plan", "outcome", outcome)
	}
	writeJSONResponse(w, http.StatusOK, plan)
}

// chatHandler handles POST /api/chat
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.chatHandler: processing chat request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		slog.Warn("Server.chatHandler: method not allowed", "method", r.Method)
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	reply, outcome := s.planner.ChatResponse(r.Context(), req.Message)
	if outcome.Degraded() {
		slog.Info("Server.chatHandler: serving fallback reply", "outcome", outcome)
	}
	writeJSONResponse(w, http.StatusOK, models.ChatResponse{Response: reply})
}
