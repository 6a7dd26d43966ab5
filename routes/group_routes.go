package routes

import (
	"github.com/edukit/quizdesk/handlers"
	"github.com/edukit/quizdesk/middleware"
	"github.com/gofiber/fiber/v2"
)

func GroupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	groups := api.Group("/groups", middleware.Protected())
	groups.Post("/join", handlers.JoinGroup)
	groups.Get("", middleware.TeacherOrAdminRequired(), handlers.ListGroups)
	groups.Post("", middleware.AdminRequired(), handlers.CreateGroup)
	groups.Patch("/:groupId", middleware.AdminRequired(), handlers.UpdateGroup)
	groups.Delete("/:groupId", middleware.AdminRequired(), handlers.DeleteGroup)
}
