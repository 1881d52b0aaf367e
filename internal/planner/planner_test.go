package planner

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/BTreeMap/StudyPlanner/internal/genai"
	"github.com/BTreeMap/StudyPlanner/internal/models"
)

// mockGenerator implements genai.Generator for testing.
type mockGenerator struct {
	text     string
	err      error
	requests []genai.Request
	closed   bool
}

func (m *mockGenerator) Generate(ctx context.Context, req genai.Request) (string, error) {
	m.requests = append(m.requests, req)
	return m.text, m.err
}

func (m *mockGenerator) Close() error {
	m.closed = true
	return nil
}

func decodePlan(t *testing.T, raw json.RawMessage) models.StudyPlan {
	t.Helper()
	var plan models.StudyPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		t.Fatalf("failed to decode plan %s: %v", raw, err)
	}
	return plan
}

func TestNewService_NoCredentialIsMockMode(t *testing.T) {
	s := NewService(context.Background(), Config{})
	if s.Live() {
		t.Fatal("expected mock mode without a credential")
	}
}

func TestNewService_BadProviderFallsBackToMock(t *testing.T) {
	s := NewService(context.Background(), Config{Provider: "nope", APIKey: "key"})
	if s.Live() {
		t.Fatal("expected mock mode when the client cannot be built")
	}
}

func TestNewService_OpenAIWithKeyIsLive(t *testing.T) {
	s := NewService(context.Background(), Config{Provider: genai.ProviderOpenAI, APIKey: "key"})
	if !s.Live() {
		t.Fatal("expected live mode with a credential")
	}
}

func TestGenerateStudyPlan_MockModeIgnoresInput(t *testing.T) {
	s := NewService(context.Background(), Config{})
	inputs := []models.StudyPlanRequest{
		{},
		{Syllabus: models.RawField(`"Organic chemistry"`), Hours: models.RawField("6"), WeakSubjects: models.RawField(`["Bio"]`)},
	}
	for _, in := range inputs {
		raw, outcome := s.GenerateStudyPlan(context.Background(), in)
		if outcome != OutcomeMock {
			t.Errorf("expected outcome %q, got %q", OutcomeMock, outcome)
		}
		if got := decodePlan(t, raw); !reflect.DeepEqual(got, MockPlan()) {
			t.Errorf("expected mock plan, got %+v", got)
		}
	}
}

func TestGenerateStudyPlan_PassesThroughValidJSON(t *testing.T) {
	providerJSON := `{
		"plan": [
			{"day": "Day 1", "subject": "Chemistry", "topic": "Alkanes", "duration": "3 hours", "tips": "Use flashcards", "extra": 1}
		]
	}`
	gen := &mockGenerator{text: providerJSON}
	s := NewService(context.Background(), Config{Model: "m1"}, WithGenerator(gen))

	raw, outcome := s.GenerateStudyPlan(context.Background(), models.StudyPlanRequest{Syllabus: models.RawField(`"Chemistry"`)})
	if outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %q", outcome)
	}
	want := `{"plan":[{"day":"Day 1","subject":"Chemistry","topic":"Alkanes","duration":"3 hours","tips":"Use flashcards","extra":1}]}`
	if string(raw) != want {
		t.Errorf("expected pass-through %s, got %s", want, raw)
	}

	if len(gen.requests) != 1 {
		t.Fatalf("expected one provider call, got %d", len(gen.requests))
	}
	req := gen.requests[0]
	if req.Format != genai.FormatJSON {
		t.Errorf("expected JSON format, got %v", req.Format)
	}
	if req.Model != "m1" {
		t.Errorf("expected model m1, got %q", req.Model)
	}
	if !strings.Contains(req.Prompt, "- Syllabus: Chemistry") {
		t.Errorf("prompt missing syllabus: %s", req.Prompt)
	}
}

func TestGenerateStudyPlan_ProviderErrorReturnsMock(t *testing.T) {
	errs := []error{errors.New("network down"), context.DeadlineExceeded, genai.ErrNoCandidates}
	for _, e := range errs {
		s := NewService(context.Background(), Config{}, WithGenerator(&mockGenerator{err: e}))
		raw, outcome := s.GenerateStudyPlan(context.Background(), models.StudyPlanRequest{})
		if outcome != OutcomeProviderError {
			t.Errorf("%v: expected %q, got %q", e, OutcomeProviderError, outcome)
		}
		if got := decodePlan(t, raw); !reflect.DeepEqual(got, MockPlan()) {
			t.Errorf("%v: expected mock plan, got %+v", e, got)
		}
	}
}

func TestGenerateStudyPlan_MalformedJSONReturnsMock(t *testing.T) {
	for _, text := range []string{"```json\n{\"plan\": []}\n```", "Here is your plan!", `{"plan": [`} {
		s := NewService(context.Background(), Config{}, WithGenerator(&mockGenerator{text: text}))
		raw, outcome := s.GenerateStudyPlan(context.Background(), models.StudyPlanRequest{})
		if outcome != OutcomeParseError {
			t.Errorf("%q: expected %q, got %q", text, OutcomeParseError, outcome)
		}
		if got := decodePlan(t, raw); !reflect.DeepEqual(got, MockPlan()) {
			t.Errorf("%q: expected mock plan, got %+v", text, got)
		}
	}
}

func TestChatResponse_MockMode(t *testing.T) {
	s := NewService(context.Background(), Config{})
	got, outcome := s.ChatResponse(context.Background(), "hello")
	if got != "I am your Exam Buddy! (Mock Mode). You said: hello" {
		t.Errorf("unexpected mock reply %q", got)
	}
	if outcome != OutcomeMock {
		t.Errorf("expected %q, got %q", OutcomeMock, outcome)
	}
}

func TestChatResponse_Live(t *testing.T) {
	gen := &mockGenerator{text: "Derivatives measure rates of change."}
	s := NewService(context.Background(), Config{}, WithGenerator(gen))
	got, outcome := s.ChatResponse(context.Background(), "What is a derivative?")
	if outcome != OutcomeSuccess || got != "Derivatives measure rates of change." {
		t.Errorf("unexpected reply %q (%s)", got, outcome)
	}
	req := gen.requests[0]
	if req.Format != genai.FormatText {
		t.Errorf("expected text format, got %v", req.Format)
	}
	want := "You are a helpful exam preparation assistant. Answer the student's doubt: What is a derivative?"
	if req.Prompt != want {
		t.Errorf("expected prompt %q, got %q", want, req.Prompt)
	}
}

func TestChatResponse_ProviderErrorApologises(t *testing.T) {
	s := NewService(context.Background(), Config{}, WithGenerator(&mockGenerator{err: errors.New("quota exceeded")}))
	got, outcome := s.ChatResponse(context.Background(), "hi")
	if got != ChatApology {
		t.Errorf("expected apology, got %q", got)
	}
	if outcome != OutcomeProviderError || !outcome.Degraded() {
		t.Errorf("expected degraded provider error outcome, got %q", outcome)
	}
}

func TestClose(t *testing.T) {
	gen := &mockGenerator{}
	s := NewService(context.Background(), Config{}, WithGenerator(gen))
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gen.closed {
		t.Error("expected generator to be closed")
	}
	if err := NewService(context.Background(), Config{}).Close(); err != nil {
		t.Errorf("closing a mock service should be a no-op, got %v", err)
	}
}

func TestMockPlanJSONIsACopy(t *testing.T) {
	a := MockPlanJSON()
	a[0] = 'X'
	if b := MockPlanJSON(); b[0] != '{' {
		t.Error("MockPlanJSON must not share its backing array")
	}
}
