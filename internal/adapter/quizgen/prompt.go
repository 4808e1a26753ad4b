package quizgen

import (
	"encoding/json"
	"strings"

	"quiz-tube/internal/domain"
)

const promptTemplate = `Based on the following transcript, generate a quiz in valid JSON format.

The quiz must follow this exact structure:

{
  "title": "Create a concise quiz title based on the topic of the transcript.",
  "description": "Summarize the transcript in no more than 150 characters. Do not include any quiz questions or answers.",
  "questions": [
    {
      "question_title": "The question goes here.",
      "question_options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct answer from the above options"
    }
    (exactly 10 questions)
  ]
}

Requirements:
- Each question must have exactly 4 distinct answer options.
- Only one correct answer is allowed per question, and it must be present in 'question_options'.
- The output must be valid JSON and parsable as-is (e.g., using Python's json.loads).
- Do not include explanations, comments, or any text outside the JSON.

Transcript:
`

// BuildPrompt embeds the transcript verbatim at the end of the generation prompt.
func BuildPrompt(transcript string) string {
	return promptTemplate + transcript
}

// ParseResponse decodes the model output into a generic JSON value. A leading
// ```json fence is removed first; any other text around the JSON is an error.
func ParseResponse(raw string) (any, error) {
	text := stripThinking(strings.TrimSpace(raw))

	if strings.HasPrefix(text, "```json") {
		text = strings.Trim(text, "`")
		text = strings.TrimSpace(strings.Replace(text, "json", "", 1))
	}

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, domain.NewGenerationError("Generated content is not valid JSON.", err)
	}
	return payload, nil
}

// stripThinking drops a leading <think>...</think> block some local models emit
// before the answer.
func stripThinking(text string) string {
	if !strings.HasPrefix(text, "<think>") {
		return text
	}
	end := strings.Index(text, "</think>")
	if end == -1 {
		return text
	}
	return strings.TrimSpace(text[end+len("</think>"):])
}
