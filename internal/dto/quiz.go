package dto

import (
	"time"

	"quiz-tube/internal/domain"
)

// CreateQuizRequest is the body of POST /api/createQuiz
// @Description Request body for creating a quiz from a YouTube video
type CreateQuizRequest struct {
	URL string `json:"url" validate:"required,url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
}

// UpdateQuizRequest is the body of PATCH /api/quizzes/{id}. Both fields are optional.
// @Description Partial quiz update
type UpdateQuizRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
}

// QuestionResponse represents a question in the API response
type QuestionResponse struct {
	ID              string    `json:"id"`
	QuestionTitle   string    `json:"question_title"`
	QuestionOptions []string  `json:"question_options"`
	Answer          string    `json:"answer"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QuizResponse represents a quiz with its questions in the API response
// @Description Quiz with its ten questions
type QuizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoURL    *string            `json:"video_url"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Questions   []QuestionResponse `json:"questions"`
}

// LogoutResponse is returned by POST /api/logout
type LogoutResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// NewQuizResponse maps a domain quiz to its API representation.
func NewQuizResponse(quiz *domain.Quiz) QuizResponse {
	resp := QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
		Questions:   make([]QuestionResponse, 0, len(quiz.Questions)),
	}
	if quiz.VideoURL != "" {
		videoURL := quiz.VideoURL
		resp.VideoURL = &videoURL
	}
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{
			ID:              q.ID,
			QuestionTitle:   q.Title,
			QuestionOptions: q.Options,
			Answer:          q.Answer,
			CreatedAt:       q.CreatedAt,
			UpdatedAt:       q.UpdatedAt,
		})
	}
	return resp
}

// NewQuizListResponse maps a list of domain quizzes.
func NewQuizListResponse(quizzes []*domain.Quiz) []QuizResponse {
	resp := make([]QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		resp = append(resp, NewQuizResponse(q))
	}
	return resp
}
