package handler

import (
	"quiz-tube/internal/domain"
	"quiz-tube/internal/dto"
	"quiz-tube/internal/middleware"
	"quiz-tube/internal/service"
	"quiz-tube/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// CreateQuiz godoc
// @Summary Create a quiz from a YouTube video
// @Description Downloads the audio, transcribes it, generates ten questions and stores the quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateQuizRequest true "YouTube URL"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /createQuiz [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewError(domain.ErrInvalidInput, "Invalid request body.", err)
	}
	if err := validation.Struct(&req); err != nil {
		return err
	}

	quiz, err := h.service.CreateQuizFromVideo(c.UserContext(), middleware.UserID(c), req.URL)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(quiz))
}

// ListQuizzes godoc
// @Summary List the caller's quizzes
// @Description Returns every quiz owned by the authenticated user, newest first
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.QuizResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.service.ListQuizzes(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// GetQuiz godoc
// @Summary Get one quiz
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.service.GetQuiz(c.UserContext(), middleware.UserID(c), quizID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// UpdateQuiz godoc
// @Summary Update title and/or description of a quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Fields to change"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [patch]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewError(domain.ErrInvalidInput, "Invalid request body.", err)
	}
	if err := validation.Struct(&req); err != nil {
		return err
	}

	quiz, err := h.service.UpdateQuiz(c.UserContext(), middleware.UserID(c), quizID(c), domain.QuizUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// DeleteQuiz godoc
// @Summary Delete a quiz and its questions
// @Tags quiz
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.service.DeleteQuiz(c.UserContext(), middleware.UserID(c), quizID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func quizID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.QuizIDKey).(string); ok {
		return id
	}
	return c.Params("id")
}
