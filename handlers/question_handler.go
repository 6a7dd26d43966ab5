package handlers

import (
	"github.com/edukit/quizdesk/apperrors"
	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type QuestionRequest struct {
	QuizID               string   `json:"quiz_id" validate:"required,uuid"`
	QuestionText         string   `json:"question_text" validate:"required"`
	QuestionType         string   `json:"question_type" validate:"required,oneof=multiple_choice true_false short_answer"`
	Options              []string `json:"options"`
	CorrectAnswerIndices []int    `json:"correct_answer_indices"`
}

// validateQuestionShape enforces the type-dependent invariants: choice
// questions need at least one option and at least one in-bounds correct
// index; short-answer questions must carry neither.
func validateQuestionShape(req QuestionRequest) error {
	switch req.QuestionType {
	case models.QuestionTypeShortAnswer:
		if len(req.Options) > 0 || len(req.CorrectAnswerIndices) > 0 {
			return apperrors.NewValidation("short-answer questions cannot have options or correct answer indices")
		}
	case models.QuestionTypeMultipleChoice, models.QuestionTypeTrueFalse:
		if len(req.Options) == 0 {
			return apperrors.NewValidation("%s questions need at least one option", req.QuestionType)
		}
		if len(req.CorrectAnswerIndices) == 0 {
			return apperrors.NewValidation("%s questions need at least one correct answer index", req.QuestionType)
		}
		for _, idx := range req.CorrectAnswerIndices {
			if idx < 0 || idx >= len(req.Options) {
				return apperrors.NewValidation("correct answer index %d is out of bounds for %d options", idx, len(req.Options))
			}
		}
	}
	return nil
}

func CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validateQuestionShape(req); err != nil {
		return err
	}

	quizID, _ := uuid.Parse(req.QuizID)
	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	// New questions append to the quiz's display order.
	var count int64
	if err := database.DB.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}

	question := models.Question{
		QuizID:               quizID,
		Position:             int(count),
		QuestionText:         req.QuestionText,
		QuestionType:         req.QuestionType,
		Options:              req.Options,
		CorrectAnswerIndices: req.CorrectAnswerIndices,
	}

	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func ListQuizQuestions(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz id"})
	}

	var questions []models.Question
	err = database.DB.Where("quiz_id = ?", quizID).
		Order("position, id").
		Find(&questions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list questions"})
	}
	return c.JSON(questions)
}

func DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}

	result := database.DB.Delete(&models.Question{}, "id = ?", questionID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
