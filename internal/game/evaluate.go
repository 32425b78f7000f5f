package game

import "butterfly-quiz-service/internal/domain"

// Evaluate reports whether selectedItemID names the question's correct item.
func Evaluate(question domain.Question, selectedItemID string) bool {
	return selectedItemID != "" && selectedItemID == question.Correct.ID
}
