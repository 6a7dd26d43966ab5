package handlers

import (
	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRequest struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	GroupID          *string  `json:"group_id" validate:"omitempty,uuid"`
	TimeLimitSeconds int      `json:"time_limit_seconds" validate:"gte=0"`
	Opened           bool     `json:"opened"`
}

// QuizUpdateRequest is a partial update; nil fields are left untouched.
type QuizUpdateRequest struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Tags             *[]string `json:"tags"`
	GroupID          *string   `json:"group_id" validate:"omitempty,uuid"`
	TimeLimitSeconds *int      `json:"time_limit_seconds" validate:"omitempty,gte=0"`
	Opened           *bool     `json:"opened"`
}

func CreateQuiz(c *fiber.Ctx) error {
	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quiz := models.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		Tags:             req.Tags,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Opened:           req.Opened,
	}

	if req.GroupID != nil {
		groupID, _ := uuid.Parse(*req.GroupID)
		var group models.Group
		if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		quiz.GroupID = &groupID
	}

	if err := database.DB.Create(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// ListQuizzes hides unopened quizzes from students; teachers and admins see
// everything.
func ListQuizzes(c *fiber.Ctx) error {
	q := database.DB.Model(&models.Quiz{})
	if currentUserRole(c) == "student" {
		q = q.Where("opened = ?", true)
	}

	var quizzes []models.Quiz
	if err := q.Order("created_at desc").Find(&quizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list quizzes"})
	}
	return c.JSON(quizzes)
}

func GetQuiz(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	if currentUserRole(c) == "student" && !quiz.Opened {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	return c.JSON(quiz)
}

func UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	var req QuizUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Tags != nil {
		quiz.Tags = *req.Tags
	}
	if req.GroupID != nil {
		groupID, _ := uuid.Parse(*req.GroupID)
		var group models.Group
		if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		quiz.GroupID = &groupID
	}
	if req.TimeLimitSeconds != nil {
		quiz.TimeLimitSeconds = *req.TimeLimitSeconds
	}
	if req.Opened != nil {
		quiz.Opened = *req.Opened
	}

	if err := database.DB.Save(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quiz"})
	}
	return c.JSON(quiz)
}

// DeleteQuiz cascades to the quiz's questions in one transaction. Stored
// answers are left in place, orphaned by design.
func DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, "id = ?", quizID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Question{}, "quiz_id = ?", quizID).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete quiz"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
