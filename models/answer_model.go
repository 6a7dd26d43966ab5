package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer rows are append-only. The composite unique index is what actually
// enforces one submission per student and quiz; the handler's existence
// check only exists to produce a friendly error before the insert races.
type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"_id"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answers_student_quiz_question" json:"studentId"`
	QuizID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answers_student_quiz_question;index" json:"quizId"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answers_student_quiz_question" json:"questionId"`

	Value            AnswerValue `gorm:"type:jsonb;not null" json:"answer"`
	TimeSpentSeconds int         `gorm:"not null;default:0" json:"timeSpent"`
	ChangedCount     int         `gorm:"not null;default:0" json:"changedCount"`

	CreatedAt time.Time `json:"-"`
}
