package models

import "github.com/google/uuid"

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	QuestionType string    `gorm:"size:50;not null;default:'multiple_choice'" json:"question_type"`

	// Only set for choice-type questions; short answers carry neither.
	Options              []string `gorm:"serializer:json" json:"options,omitempty"`
	CorrectAnswerIndices []int    `gorm:"serializer:json" json:"correct_answer_indices,omitempty"`
}

// IsChoiceType reports whether the question carries an option list.
func (q *Question) IsChoiceType() bool {
	return q.QuestionType == QuestionTypeMultipleChoice || q.QuestionType == QuestionTypeTrueFalse
}
