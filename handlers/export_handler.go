package handlers

import (
	"errors"
	"fmt"

	"github.com/edukit/quizdesk/apperrors"
	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/edukit/quizdesk/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ExportGroupMisses streams the group's attendance summary as CSV.
func ExportGroupMisses(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group id"})
	}

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		return apperrors.NewNotFound("Group")
	}

	var students []models.User
	err = database.DB.Where("group_id = ? AND role = ?", groupID, "student").
		Order("full_name").
		Find(&students).Error
	if err != nil {
		return apperrors.NewStorage(err)
	}

	studentIDs := make([]uuid.UUID, len(students))
	for i, s := range students {
		studentIDs[i] = s.ID
	}

	missesByStudent := make(map[uuid.UUID][]models.Miss)
	if len(studentIDs) > 0 {
		var misses []models.Miss
		if err := database.DB.Where("student_id IN ?", studentIDs).Find(&misses).Error; err != nil {
			return apperrors.NewStorage(err)
		}
		for _, m := range misses {
			missesByStudent[m.StudentID] = append(missesByStudent[m.StudentID], m)
		}
	}

	csv, err := services.BuildAttendanceCSV(students, missesByStudent)
	if err != nil {
		if errors.Is(err, services.ErrNoStudentsToExport) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.csv"`, group.Name))
	return c.SendString(csv)
}
