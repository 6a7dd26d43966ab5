package handlers

import (
	"fmt"

	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/edukit/quizdesk/notifications"
	"github.com/edukit/quizdesk/services"
	"github.com/edukit/quizdesk/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AnswerRecordRequest keeps the historical wire field names; `answer` is
// polymorphic (string | number | list of strings) and lands in the tagged
// AnswerValue.
type AnswerRecordRequest struct {
	StudentID    string             `json:"studentId" validate:"required,uuid"`
	QuizID       string             `json:"quizId" validate:"required,uuid"`
	QuestionID   string             `json:"questionId" validate:"required,uuid"`
	Answer       models.AnswerValue `json:"answer"`
	TimeSpent    int                `json:"timeSpent" validate:"gte=0"`
	ChangedCount int                `json:"changedCount" validate:"gte=0"`
}

// SubmitAnswers persists a full submission batch. One batch per
// (student, quiz): a repeat attempt is rejected and nothing is written.
func SubmitAnswers(c *fiber.Ctx) error {
	var req []AnswerRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if len(req) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Answer batch cannot be empty"})
	}

	batch := make([]models.Answer, 0, len(req))
	for i, rec := range req {
		if err := validate.Struct(rec); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("answers[%d]: %s", i, err.Error())})
		}
		if rec.Answer.Kind == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("answers[%d]: answer value is required", i)})
		}
		studentID, _ := uuid.Parse(rec.StudentID)
		quizID, _ := uuid.Parse(rec.QuizID)
		questionID, _ := uuid.Parse(rec.QuestionID)
		batch = append(batch, models.Answer{
			StudentID:        studentID,
			QuizID:           quizID,
			QuestionID:       questionID,
			Value:            rec.Answer,
			TimeSpentSeconds: rec.TimeSpent,
			ChangedCount:     rec.ChangedCount,
		})
	}

	// Students may only submit for themselves.
	if currentUserRole(c) == "student" {
		userID, err := currentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		for _, a := range batch {
			if a.StudentID != userID {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot submit answers for another student"})
			}
		}
	}

	// Taxonomy errors (duplicate, validation, storage) travel to the app
	// ErrorHandler, which owns their status codes.
	if err := services.SubmitAnswerBatch(database.DB, batch); err != nil {
		return err
	}

	notifySubmission(batch[0].StudentID, batch[0].QuizID, len(batch))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Answers submitted successfully"})
}

func GetQuizAnswers(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	answers, err := services.AnswersForQuiz(database.DB, quizID)
	if err != nil {
		return err
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	return c.JSON(answers)
}

// notifySubmission fires the best-effort "quiz submitted" signals. None of
// them can fail the submission itself.
func notifySubmission(studentID, quizID uuid.UUID, answerCount int) {
	var groupID *uuid.UUID
	var quiz models.Quiz
	if err := database.DB.Select("id", "group_id").First(&quiz, "id = ?", quizID).Error; err == nil {
		groupID = quiz.GroupID
	}

	go notifications.PublishQuizSubmitted(studentID, quizID, answerCount)
	websocket.NotifyQuizSubmitted(quizID, studentID, groupID)
}
