package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{"invalid input", domain.NewInvalidInputError("Invalid YouTube URL."), 400, "INVALID_INPUT", "Invalid YouTube URL."},
		{"not found", domain.NewQuizNotFoundError("x"), 404, "QUIZ_NOT_FOUND", "Quiz not found."},
		{"forbidden", domain.NewForbiddenError("You have not Permission to enter this Quiz"), 403, "FORBIDDEN", "You have not Permission to enter this Quiz"},
		{"unauthorized", domain.NewUnauthorizedError("nope", nil), 401, "UNAUTHORIZED", "nope"},
		{"acquisition", domain.NewAcquisitionError(errors.New("yt-dlp")), 500, "ACQUISITION_FAILED", "Failed to download audio."},
		{"empty transcript", domain.NewTranscriptionEmptyError(), 500, "TRANSCRIPTION_EMPTY", "Transcription failed."},
		{"validation", domain.NewValidationFailedError("Missing key: title"), 500, "VALIDATION_FAILED", "Generated quiz is invalid: Missing key: title"},
		{"wrapped domain error", fmt.Errorf("outer: %w", domain.NewPersistenceError(errors.New("ORA"))), 500, "PERSISTENCE_FAILED", "Failed to save quiz."},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed"), 405, "HTTP_ERROR", "Method Not Allowed"},
		{"unknown", errors.New("boom"), 500, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var errResp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, tt.expectedCode, errResp.Code)
			assert.Equal(t, tt.expectedMessage, errResp.Message)
			assert.Equal(t, tt.expectedStatus, errResp.Status)
		})
	}
}

func TestValidateQuizID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/quizzes/:id", middleware.ValidateQuizID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.QuizIDKey).(string))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/quizzes/01ARZ3NDEKTSV4RRFFQ69G5FAV", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", string(body))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/quizzes/not-a-ulid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRequestLogger_KeepsErrorStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestLogger())
	app.Get("/missing", func(c *fiber.Ctx) error { return domain.NewQuizNotFoundError("x") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
