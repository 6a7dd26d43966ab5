package handlers

import (
	"testing"

	"github.com/edukit/quizdesk/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateQuestionShape(t *testing.T) {
	tests := []struct {
		name    string
		req     QuestionRequest
		wantErr bool
	}{
		{
			name: "valid multiple choice",
			req: QuestionRequest{
				QuestionType:         models.QuestionTypeMultipleChoice,
				Options:              []string{"a", "b", "c"},
				CorrectAnswerIndices: []int{0, 2},
			},
		},
		{
			name: "valid true false",
			req: QuestionRequest{
				QuestionType:         models.QuestionTypeTrueFalse,
				Options:              []string{"True", "False"},
				CorrectAnswerIndices: []int{1},
			},
		},
		{
			name: "valid short answer",
			req:  QuestionRequest{QuestionType: models.QuestionTypeShortAnswer},
		},
		{
			name: "choice without options",
			req: QuestionRequest{
				QuestionType:         models.QuestionTypeMultipleChoice,
				CorrectAnswerIndices: []int{0},
			},
			wantErr: true,
		},
		{
			name: "choice without correct indices",
			req: QuestionRequest{
				QuestionType: models.QuestionTypeMultipleChoice,
				Options:      []string{"a", "b"},
			},
			wantErr: true,
		},
		{
			name: "correct index out of bounds",
			req: QuestionRequest{
				QuestionType:         models.QuestionTypeTrueFalse,
				Options:              []string{"True", "False"},
				CorrectAnswerIndices: []int{2},
			},
			wantErr: true,
		},
		{
			name: "negative correct index",
			req: QuestionRequest{
				QuestionType:         models.QuestionTypeMultipleChoice,
				Options:              []string{"a"},
				CorrectAnswerIndices: []int{-1},
			},
			wantErr: true,
		},
		{
			name: "short answer with options",
			req: QuestionRequest{
				QuestionType: models.QuestionTypeShortAnswer,
				Options:      []string{"a"},
			},
			wantErr: true,
		},
		{
			name: "short answer with correct indices",
			req: QuestionRequest{
				QuestionType:         models.QuestionTypeShortAnswer,
				CorrectAnswerIndices: []int{0},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestionShape(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
