package planner

import (
	"fmt"

	"github.com/BTreeMap/StudyPlanner/internal/models"
)

const studyPlanPromptTemplate = `Act as an expert study planner. Create a structured study plan based on the following:
- Syllabus: %s
- Available Daily Hours: %s
- Weak Subjects: %s (Prioritize these)

Output ONLY a valid JSON object with the following structure:
{
    "plan": [
        {"day": "Day 1", "subject": "Subject Name", "topic": "Topic Name", "duration": "Duration", "tips": "Brief tip"}
    ]
}
Do not include markdown formatting like ` + "```json."

const chatPromptTemplate = "You are a helpful exam preparation assistant. Answer the student's doubt: %s"

// BuildStudyPlanPrompt embeds the request values verbatim. Nothing is escaped.
func BuildStudyPlanPrompt(req models.StudyPlanRequest) string {
	return fmt.Sprintf(studyPlanPromptTemplate, req.Syllabus.String(), req.Hours.String(), req.WeakSubjects.String())
}

// BuildChatPrompt embeds the message verbatim.
func BuildChatPrompt(message string) string {
	return fmt.Sprintf(chatPromptTemplate, message)
}
