package validation

import (
	"quiz-tube/internal/domain"
	"quiz-tube/internal/util"
)

// QuizID checks a quiz id taken from the request path. Ids that could never
// have been issued are reported as a missing quiz.
func QuizID(id string) error {
	if !util.IsULID(id) {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}
