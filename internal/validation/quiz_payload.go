package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"quiz-tube/internal/domain"
)

// MaxDescriptionLength is the longest description a generated quiz may carry.
const MaxDescriptionLength = 500

var requiredQuizKeys = []string{"title", "description", "questions"}

// ValidateQuizPayload checks a decoded model response against the quiz contract.
// It returns (true, "") when the payload is acceptable and otherwise (false,
// reason) for the first rule that fails. title is only checked for presence.
func ValidateQuizPayload(v any) (bool, string) {
	quiz, ok := v.(map[string]any)
	if !ok {
		return false, "Quiz is not a JSON object."
	}

	for _, key := range requiredQuizKeys {
		if _, found := quiz[key]; !found {
			return false, "Missing key: " + key
		}
	}

	description, ok := quiz["description"].(string)
	if !ok || utf8.RuneCountInString(description) > MaxDescriptionLength {
		return false, fmt.Sprintf("description must be <= %d characters.", MaxDescriptionLength)
	}

	questions, ok := quiz["questions"].([]any)
	if !ok || len(questions) != domain.RequiredQuestionCount {
		return false, fmt.Sprintf("questions must contain exactly %d questions.", domain.RequiredQuestionCount)
	}

	for i, item := range questions {
		if reason := validateQuestion(i+1, item); reason != "" {
			return false, reason
		}
	}
	return true, ""
}

func validateQuestion(n int, item any) string {
	question, _ := item.(map[string]any)

	title, ok := question["question_title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return fmt.Sprintf("Q%d: question_title missing/invalid.", n)
	}

	options, ok := question["question_options"].([]any)
	if !ok || len(options) != domain.RequiredOptionCount {
		return fmt.Sprintf("Q%d: must have exactly %d options.", n, domain.RequiredOptionCount)
	}
	if !distinct(options) {
		return fmt.Sprintf("Q%d: options must be distinct.", n)
	}

	answer, ok := question["answer"].(string)
	if !ok || !contains(options, answer) {
		return fmt.Sprintf("Q%d: answer must be one of the options.", n)
	}
	return ""
}

// distinct compares decoded JSON values for exact equality.
func distinct(values []any) bool {
	for i := range values {
		for j := i + 1; j < len(values); j++ {
			if reflect.DeepEqual(values[i], values[j]) {
				return false
			}
		}
	}
	return true
}

func contains(values []any, s string) bool {
	for _, v := range values {
		if str, ok := v.(string); ok && str == s {
			return true
		}
	}
	return false
}

// DecodeQuizPayload converts a payload accepted by ValidateQuizPayload into a
// GeneratedQuiz. Scalar fields are stringified and trimmed; options keep their
// text and order.
func DecodeQuizPayload(v any) (*domain.GeneratedQuiz, error) {
	if ok, reason := ValidateQuizPayload(v); !ok {
		return nil, domain.NewValidationFailedError(reason)
	}

	raw := v.(map[string]any)
	quiz := &domain.GeneratedQuiz{
		Title:       coerce(raw["title"]),
		Description: coerce(raw["description"]),
	}

	for _, item := range raw["questions"].([]any) {
		question := item.(map[string]any)
		rawOptions := question["question_options"].([]any)

		options := make([]string, 0, len(rawOptions))
		for _, opt := range rawOptions {
			if s, ok := opt.(string); ok {
				options = append(options, s)
				continue
			}
			options = append(options, fmt.Sprint(opt))
		}

		quiz.Questions = append(quiz.Questions, domain.GeneratedQuestion{
			Title:   coerce(question["question_title"]),
			Options: options,
			Answer:  coerce(question["answer"]),
		})
	}
	return quiz, nil
}

func coerce(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
