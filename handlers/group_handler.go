package handlers

import (
	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/models"
	"github.com/edukit/quizdesk/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRequest struct {
	Name       string   `json:"name" validate:"required"`
	TeacherIDs []string `json:"teacher_ids" validate:"omitempty,dive,uuid"`
}

type GroupUpdateRequest struct {
	Name       *string   `json:"name"`
	TeacherIDs *[]string `json:"teacher_ids" validate:"omitempty,dive,uuid"`
}

func loadTeachers(tx *gorm.DB, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teachers []*models.User
	if err := tx.Where("id IN ?", ids).Find(&teachers).Error; err != nil {
		return nil, err
	}
	if len(teachers) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return teachers, nil
}

func CreateGroup(c *fiber.Ctx) error {
	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	teachers, err := loadTeachers(database.DB, req.TeacherIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "One or more teacher IDs are invalid"})
	}

	joinCode, err := utils.GenerateUniqueJoinCode(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate join code"})
	}

	group := models.Group{
		Name:     req.Name,
		JoinCode: joinCode,
		Teachers: teachers,
	}
	if err := database.DB.Create(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create group"})
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

func ListGroups(c *fiber.Ctx) error {
	var groups []models.Group
	if err := database.DB.Preload("Teachers").Order("created_at").Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list groups"})
	}
	return c.JSON(groups)
}

func UpdateGroup(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group id"})
	}

	var req GroupUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var group models.Group
	if err := database.DB.First(&group, "id = ?", groupID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if req.Name != nil {
			group.Name = *req.Name
			if err := tx.Save(&group).Error; err != nil {
				return err
			}
		}
		if req.TeacherIDs != nil {
			teachers, err := loadTeachers(tx, *req.TeacherIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&group).Association("Teachers").Replace(teachers); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update group"})
	}
	return c.JSON(group)
}

// DeleteGroup detaches members and teachers before removing the group; the
// users themselves stay.
func DeleteGroup(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid group id"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("group_id = ?", groupID).Update("group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&group).Association("Teachers").Clear(); err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete group"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type JoinGroupRequest struct {
	JoinCode string `json:"join_code" validate:"required"`
}

// JoinGroup attaches the authenticated user to the group whose join code
// they present.
func JoinGroup(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req JoinGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var group models.Group
	if err := database.DB.Where("join_code = ?", req.JoinCode).First(&group).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Group not found"})
	}

	err = database.DB.Model(&models.User{}).Where("id = ?", userID).Update("group_id", group.ID).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to join group"})
	}
	return c.JSON(fiber.Map{"message": "Joined group", "group_id": group.ID})
}
