package feedbacksvc

import (
	"fmt"
	"strings"

	"github.com/trezcool/registro/core/gradebook"
)

const (
	FallbackEmpty       = "Feedback could not be generated right now."
	FallbackUnavailable = "Note: AI feedback needs an internet connection and a valid API key configured."

	maxWords = 100
)

// Prompt asks for a short constructive comment on the given grades.
func Prompt(studentName, subjectName string, grades []gradebook.GradeEntry) string {
	lines := make([]string, 0, len(grades))
	for _, g := range grades {
		lines = append(lines, fmt.Sprintf("%s: %s", g.Name, string(g.Value)))
	}
	return fmt.Sprintf("As a teacher, write a short, constructive feedback comment for the student %s in %s. "+
		"Their grades in recent activities are: %s. "+
		"Possible grades are AD (Excellent), A (Very good), B (Fair), C (Needs improvement). "+
		"Keep the tone professional and encouraging. %d words maximum.",
		studentName, subjectName, strings.Join(lines, ", "), maxWords)
}
