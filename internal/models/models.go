// Package models defines the core data structures for StudyPlanner.
//
// It includes the study plan and chat transport types shared by the API and
// planner modules, and the envelope used for transport-level errors.
package models

// PlanEntry is a single study session in a plan.
type PlanEntry struct {
	Day      string `json:"day"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Duration string `json:"duration"`
	Tips     string `json:"tips"`
}

// StudyPlan is an ordered sequence of plan entries.
type StudyPlan struct {
	Plan []PlanEntry `json:"plan"`
}

// StudyPlanRequest carries the raw, unvalidated inputs for plan generation.
// Each field may hold any JSON value or be absent.
type StudyPlanRequest struct {
	Syllabus     Field `json:"syllabus"`
	Hours        Field `json:"hours"`
	WeakSubjects Field `json:"weak_subjects"`
}

// ChatRequest is the body of a chat message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse wraps the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// APIResponseBuilder provides a fluent interface for building API responses.
type APIResponseBuilder struct {
	response APIResponse
}

// NewAPIResponseBuilder creates a new APIResponseBuilder instance.
func NewAPIResponseBuilder() *APIResponseBuilder {
	return &APIResponseBuilder{
		response: APIResponse{},
	}
}

// WithStatus sets the status of the API response.
func (b *APIResponseBuilder) WithStatus(status APIStatus) *APIResponseBuilder {
	b.response.Status = string(status)
	return b
}

// WithMessage sets the message of the API response.
func (b *APIResponseBuilder) WithMessage(message string) *APIResponseBuilder {
	b.response.Message = message
	return b
}

// WithResult sets the result data of the API response.
func (b *APIResponseBuilder) WithResult(result interface{}) *APIResponseBuilder {
	b.response.Result = result
	return b
}

// Build constructs and returns the final APIResponse.
func (b *APIResponseBuilder) Build() APIResponse {
	return b.response
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusOK).
		WithResult(result).
		Build()
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusError).
		WithMessage(message).
		Build()
}
