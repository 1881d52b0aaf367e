package planner

import (
	"encoding/json"
	"fmt"

	"github.com/BTreeMap/StudyPlanner/internal/models"
)

// ChatApology is returned when a live chat call fails.
const ChatApology = "Sorry, I encountered an error processing your request."

// mockChatPrefix is prepended to the echoed message in mock mode.
const mockChatPrefix = "I am your Exam Buddy! (Mock Mode). You said: "

// MockPlan returns the fixed two-entry plan served in mock mode and on failure.
func MockPlan() models.StudyPlan {
	return models.StudyPlan{
		Plan: []models.PlanEntry{
			{Day: "Monday", Subject: "Math", Topic: "Calculus (Mock)", Duration: "2 hours", Tips: "Focus on derivatives"},
			{Day: "Monday", Subject: "Physics", Topic: "Optics (Mock)", Duration: "1 hour", Tips: "Draw ray diagrams"},
		},
	}
}

// MockChatResponse is the canned mock-mode reply.
func MockChatResponse(message string) string {
	return mockChatPrefix + message
}

var mockPlanJSON json.RawMessage

func init() {
	data, err := json.Marshal(MockPlan())
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal mock plan at startup: %v", err))
	}
	mockPlanJSON = data
}

// MockPlanJSON returns the encoded mock plan. Callers get their own copy.
func MockPlanJSON() json.RawMessage {
	out := make(json.RawMessage, len(mockPlanJSON))
	copy(out, mockPlanJSON)
	return out
}

// fallbackPolicy decides what a caller receives for every non-success outcome.
// Mock mode, provider errors and parse errors all collapse to the same value.
type fallbackPolicy struct{}

// plan ignores the outcome: every degraded plan is the mock plan.
func (fallbackPolicy) plan(Outcome) json.RawMessage {
	return MockPlanJSON()
}

func (fallbackPolicy) chat(outcome Outcome, message string) string {
	switch outcome {
	case OutcomeMock:
		return MockChatResponse(message)
	default:
		return ChatApology
	}
}
