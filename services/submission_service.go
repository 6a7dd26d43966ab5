package services

import (
	"errors"

	"github.com/edukit/quizdesk/apperrors"
	"github.com/edukit/quizdesk/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitAnswerBatch persists a full submission in one transaction. The
// existence check gives a friendly error on the common path; the composite
// unique index on (student_id, quiz_id, question_id) is what closes the
// check-then-act race, surfacing a lost race as gorm.ErrDuplicatedKey with
// the whole batch rolled back.
func SubmitAnswerBatch(db *gorm.DB, batch []models.Answer) error {
	if len(batch) == 0 {
		return nil
	}
	first := batch[0]

	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Answer{}).
			Where("student_id = ? AND quiz_id = ?", first.StudentID, first.QuizID).
			Count(&count).Error
		if err != nil {
			return apperrors.NewStorage(err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateSubmission
		}

		if err := tx.Create(&batch).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateSubmission
			}
			return apperrors.NewStorage(err)
		}
		return nil
	})
}

// AnswersForQuiz returns every stored answer for a quiz in creation order,
// so repeated reads are deterministic.
func AnswersForQuiz(db *gorm.DB, quizID uuid.UUID) ([]models.Answer, error) {
	var answers []models.Answer
	err := db.Where("quiz_id = ?", quizID).
		Order("created_at, id").
		Find(&answers).Error
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	return answers, nil
}

// HasSubmission reports whether a student already submitted a given quiz.
func HasSubmission(db *gorm.DB, studentID, quizID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Answer{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewStorage(err)
	}
	return count > 0, nil
}
