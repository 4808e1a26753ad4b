package validation

import (
	"testing"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestStruct_CreateQuizRequest(t *testing.T) {
	assert.NoError(t, Struct(dto.CreateQuizRequest{URL: "https://youtu.be/abc"}))

	err := Struct(dto.CreateQuizRequest{})
	assert.Equal(t, domain.ErrInvalidInput, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "url: This field is required.")

	err = Struct(dto.CreateQuizRequest{URL: "not a url"})
	assert.Equal(t, domain.ErrInvalidInput, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "url: Enter a valid URL.")
}

func TestStruct_UpdateQuizRequest(t *testing.T) {
	title := "New title"
	empty := ""

	assert.NoError(t, Struct(dto.UpdateQuizRequest{}))
	assert.NoError(t, Struct(dto.UpdateQuizRequest{Title: &title}))
	assert.NoError(t, Struct(dto.UpdateQuizRequest{Description: &empty}))

	err := Struct(dto.UpdateQuizRequest{Title: &empty})
	assert.Equal(t, domain.ErrInvalidInput, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "title: This field may not be blank.")
}
