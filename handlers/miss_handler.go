package handlers

import (
	"github.com/edukit/quizdesk/apperrors"
	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/edukit/quizdesk/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissRequest struct {
	StudentID    string `json:"student_id" validate:"required,uuid"`
	HoursPresent int    `json:"hours_present" validate:"gte=0,lte=6"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
}

type MissUpdateRequest struct {
	HoursPresent *int    `json:"hours_present" validate:"omitempty,gte=0,lte=6"`
	Date         *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateMiss records one attendance session. Repeated calls for the same
// student and date accumulate as independent rows; no per-date dedup.
func CreateMiss(c *fiber.Ctx) error {
	var req MissRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	studentID, _ := uuid.Parse(req.StudentID)
	var student models.User
	if err := database.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	miss := models.Miss{
		StudentID:    studentID,
		HoursPresent: req.HoursPresent,
		Date:         req.Date,
	}
	if err := database.DB.Create(&miss).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create attendance record"})
	}
	return c.Status(fiber.StatusCreated).JSON(miss)
}

func ListMisses(c *fiber.Ctx) error {
	q := database.DB.Model(&models.Miss{})
	if raw := c.Query("studentId"); raw != "" {
		studentID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
		}
		q = q.Where("student_id = ?", studentID)
	}

	var misses []models.Miss
	if err := q.Order("date, created_at").Find(&misses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list attendance records"})
	}
	return c.JSON(misses)
}

// GetMissSummary returns a student's capped missed-hours total.
func GetMissSummary(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	var misses []models.Miss
	if err := database.DB.Where("student_id = ?", studentID).Find(&misses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load attendance records"})
	}

	return c.JSON(fiber.Map{
		"student_id":         studentID,
		"total_missed_hours": services.HoursMissed(misses),
		"record_count":       len(misses),
	})
}

// UpdateMiss lets a teacher correct a past entry in place.
func UpdateMiss(c *fiber.Ctx) error {
	missID, err := uuid.Parse(c.Params("missId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var req MissUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var miss models.Miss
	if err := database.DB.First(&miss, "id = ?", missID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance record not found"})
	}

	if req.HoursPresent != nil {
		miss.HoursPresent = *req.HoursPresent
	}
	if req.Date != nil {
		miss.Date = *req.Date
	}
	if err := database.DB.Save(&miss).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update attendance record"})
	}
	return c.JSON(miss)
}

type BulkMissEntry struct {
	StudentID    string `json:"student_id" validate:"required,uuid"`
	HoursPresent int    `json:"hours_present" validate:"gte=0,lte=6"`
}

type BulkMissRequest struct {
	Date    string          `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []BulkMissEntry `json:"entries" validate:"omitempty,dive"`

	// DefaultHoursPresent marks every group student without an explicit
	// entry; requires group_id.
	GroupID             *string `json:"group_id" validate:"omitempty,uuid"`
	DefaultHoursPresent *int    `json:"default_hours_present" validate:"omitempty,gte=0,lte=6"`
}

// BulkCreateMisses writes one row per marked student in a single
// transaction, for the "mark the whole class" flow. Explicit entries win;
// default_hours_present fills in the rest of the group via MarkAll.
func BulkCreateMisses(c *fiber.Ctx) error {
	var req BulkMissRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// order keeps the response deterministic: explicit entries first, then
	// defaulted group members in roster order.
	pending := make(map[uuid.UUID]int, len(req.Entries))
	order := make([]uuid.UUID, 0, len(req.Entries))
	for _, e := range req.Entries {
		studentID, _ := uuid.Parse(e.StudentID)
		if _, dup := pending[studentID]; !dup {
			order = append(order, studentID)
		}
		pending[studentID] = e.HoursPresent
	}

	if req.DefaultHoursPresent != nil {
		if req.GroupID == nil {
			return apperrors.NewValidation("group_id is required when default_hours_present is set")
		}
		groupID, _ := uuid.Parse(*req.GroupID)
		var group models.Group
		if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
			return apperrors.NewNotFound("Group")
		}
		var students []models.User
		err := database.DB.Where("group_id = ? AND role = ?", groupID, "student").
			Order("full_name").
			Find(&students).Error
		if err != nil {
			return apperrors.NewStorage(err)
		}
		ids := make([]uuid.UUID, len(students))
		for i, s := range students {
			ids[i] = s.ID
		}
		pending = services.MarkAll(pending, ids, *req.DefaultHoursPresent)
		for _, id := range ids {
			if len(order) == len(pending) {
				break
			}
			explicit := false
			for _, seen := range order {
				if seen == id {
					explicit = true
					break
				}
			}
			if !explicit {
				order = append(order, id)
			}
		}
	}

	if len(order) == 0 {
		return apperrors.NewValidation("nothing to mark: provide entries or default_hours_present")
	}

	misses := make([]models.Miss, 0, len(order))
	for _, studentID := range order {
		misses = append(misses, models.Miss{
			StudentID:    studentID,
			HoursPresent: pending[studentID],
			Date:         req.Date,
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&misses).Error
	})
	if err != nil {
		return apperrors.NewStorage(err)
	}
	return c.Status(fiber.StatusCreated).JSON(misses)
}
