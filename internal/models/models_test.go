package models

import (
	"encoding/json"
	"testing"
)

func TestStudyPlanRequestDecoding(t *testing.T) {
	body := `{"syllabus": "Algebra, Optics", "hours": 4, "weak_subjects": ["Math", "Physics"]}`
	var req StudyPlanRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Syllabus.String(); got != "Algebra, Optics" {
		t.Errorf("syllabus: expected %q, got %q", "Algebra, Optics", got)
	}
	if got := req.Hours.String(); got != "4" {
		t.Errorf("hours: expected %q, got %q", "4", got)
	}
	if got := req.WeakSubjects.String(); got != "Math, Physics" {
		t.Errorf("weak_subjects: expected %q, got %q", "Math, Physics", got)
	}
}

func TestStudyPlanRequestMissingKeys(t *testing.T) {
	var req StudyPlanRequest
	if err := json.Unmarshal([]byte(`{"hours": null}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.Syllabus.IsAbsent() {
		t.Error("expected missing syllabus to be absent")
	}
	if !req.Hours.IsAbsent() {
		t.Error("expected null hours to be absent")
	}
	if got := req.WeakSubjects.String(); got != AbsentFieldText {
		t.Errorf("expected %q for absent field, got %q", AbsentFieldText, got)
	}
}

func TestFieldString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", AbsentFieldText},
		{"null", "null", AbsentFieldText},
		{"string", `"Chemistry"`, "Chemistry"},
		{"float", "2.5", "2.5"},
		{"bool", "true", "true"},
		{"string list", `["a", "b"]`, "a, b"},
		{"mixed list", `["a", 1]`, `["a",1]`},
		{"object", `{"x": 1}`, `{"x":1}`},
		{"invalid", `{nope`, `{nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RawField(tt.raw).String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFieldMarshalAbsent(t *testing.T) {
	data, err := json.Marshal(StudyPlanRequest{Hours: RawField("3")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"syllabus":null,"hours":3,"weak_subjects":null}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := Error("Invalid JSON format")
	if resp.Status != string(APIStatusError) {
		t.Errorf("expected status %q, got %q", APIStatusError, resp.Status)
	}
	if resp.Message != "Invalid JSON format" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Result != nil {
		t.Errorf("expected nil result, got %v", resp.Result)
	}
}

func TestSuccessResponse(t *testing.T) {
	resp := Success(ChatResponse{Response: "hi"})
	if resp.Status != string(APIStatusOK) {
		t.Errorf("expected status %q, got %q", APIStatusOK, resp.Status)
	}
	if _, ok := resp.Result.(ChatResponse); !ok {
		t.Errorf("expected ChatResponse result, got %T", resp.Result)
	}
}
