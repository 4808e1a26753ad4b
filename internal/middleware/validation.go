package middleware

import (
	"quiz-tube/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizIDKey holds the validated :id path parameter in fiber.Ctx locals
const QuizIDKey = "validated_quiz_id"

// ValidateQuizID rejects malformed :id path parameters before the handler runs.
func ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := validation.QuizID(id); err != nil {
			return err // This will be handled by ErrorHandler middleware
		}
		c.Locals(QuizIDKey, id)
		return c.Next()
	}
}
