package handlers

import (
	"errors"
	"time"

	"github.com/edukit/quizdesk/apperrors"
	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/edukit/quizdesk/services"
	"github.com/edukit/quizdesk/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// sessionSubmitFunc builds the closure a session calls when it finishes,
// whether by student action, countdown expiry or the janitor job. The
// notification fan-out stays best-effort either way.
func sessionSubmitFunc(studentID, quizID uuid.UUID) session.SubmitFunc {
	return func(batch []models.Answer) error {
		if err := services.SubmitAnswerBatch(database.DB, batch); err != nil {
			return err
		}
		notifySubmission(studentID, quizID, len(batch))
		return nil
	}
}

// StartQuizSession opens an in-memory attempt for the authenticated
// student. Starting again for the same quiz abandons the previous attempt.
func StartQuizSession(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	if !quiz.Opened {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Quiz is not open"})
	}

	submitted, err := services.HasSubmission(database.DB, studentID, quizID)
	if err != nil {
		return err
	}
	if submitted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quiz already submitted by this student"})
	}

	var questions []models.Question
	err = database.DB.Where("quiz_id = ?", quizID).Order("position, id").Find(&questions).Error
	if err != nil {
		return apperrors.NewStorage(err)
	}

	s, err := session.DefaultManager.Start(studentID, quiz, questions, sessionSubmitFunc(studentID, quizID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start session"})
	}

	// Correct answers never leave the server during an attempt.
	type QuestionForStudent struct {
		ID           uuid.UUID `json:"id"`
		Position     int       `json:"position"`
		QuestionText string    `json:"question_text"`
		QuestionType string    `json:"question_type"`
		Options      []string  `json:"options,omitempty"`
	}
	questionsForStudent := make([]QuestionForStudent, len(questions))
	for i, q := range questions {
		questionsForStudent[i] = QuestionForStudent{
			ID:           q.ID,
			Position:     q.Position,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
		}
	}

	resp := fiber.Map{
		"quiz_id":            quiz.ID,
		"quiz_title":         quiz.Title,
		"state":              s.State(),
		"time_limit_seconds": quiz.TimeLimitSeconds,
		"questions":          questionsForStudent,
	}
	if deadline, timed := s.Deadline(); timed {
		resp["deadline"] = deadline.UTC()
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func activeSession(c *fiber.Ctx) (*session.Session, error) {
	studentID, err := currentUserID(c)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}
	s, ok := session.DefaultManager.Get(studentID, quizID)
	if !ok {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active session for this quiz"})
	}
	return s, nil
}

type ViewQuestionRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
}

// ViewSessionQuestion switches which question's clock is live.
func ViewSessionQuestion(c *fiber.Ctx) error {
	s, err := activeSession(c)
	if s == nil {
		return err
	}

	var req ViewQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	questionID, _ := uuid.Parse(req.QuestionID)
	if err := s.ViewQuestion(questionID); err != nil {
		return sessionErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"state": s.State()})
}

type SessionAnswerRequest struct {
	QuestionID string             `json:"question_id" validate:"required,uuid"`
	Answer     models.AnswerValue `json:"answer"`
}

// RecordSessionAnswer overwrites the in-memory answer for a question and
// bumps its change counter.
func RecordSessionAnswer(c *fiber.Ctx) error {
	s, err := activeSession(c)
	if s == nil {
		return err
	}

	var req SessionAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Answer.Kind == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Answer value is required"})
	}

	questionID, _ := uuid.Parse(req.QuestionID)
	if err := s.RecordAnswer(questionID, req.Answer); err != nil {
		return sessionErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"state": s.State()})
}

// SubmitQuizSession finalizes the attempt. A failure keeps the session
// alive so the student can retry without losing anything.
func SubmitQuizSession(c *fiber.Ctx) error {
	s, err := activeSession(c)
	if s == nil {
		return err
	}

	if err := s.Submit(); err != nil {
		return sessionErrorResponse(c, err)
	}

	session.DefaultManager.Remove(s.StudentID, s.QuizID)
	return c.JSON(fiber.Map{"message": "Answers submitted successfully", "state": s.State()})
}

// GetQuizSession reports the session's state and per-question progress.
func GetQuizSession(c *fiber.Ctx) error {
	s, err := activeSession(c)
	if s == nil {
		return err
	}

	resp := fiber.Map{
		"quiz_id":  s.QuizID,
		"state":    s.State(),
		"progress": s.Progress(),
	}
	if deadline, timed := s.Deadline(); timed {
		resp["deadline"] = deadline.UTC()
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		resp["remaining_seconds"] = int(remaining / time.Second)
	}
	return c.JSON(resp)
}

func sessionErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrNotInProgress),
		errors.Is(err, session.ErrSessionClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, session.ErrAlreadySubmitting):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, session.ErrUnknownQuestion):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		// Submission failures carry taxonomy errors; the app ErrorHandler
		// owns their status codes.
		return err
	}
}
