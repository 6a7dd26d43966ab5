package routes

import (
	"github.com/edukit/quizdesk/handlers"
	"github.com/edukit/quizdesk/middleware"
	"github.com/gofiber/fiber/v2"
)

func AttendanceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	misses := api.Group("/misses", middleware.Protected(), middleware.TeacherOrAdminRequired())
	misses.Post("", handlers.CreateMiss)
	misses.Post("/bulk", handlers.BulkCreateMisses)
	misses.Get("", handlers.ListMisses)
	misses.Get("/summary/:studentId", handlers.GetMissSummary)
	misses.Patch("/:missId", handlers.UpdateMiss)

	api.Get("/groups/:groupId/misses/export",
		middleware.Protected(), middleware.TeacherOrAdminRequired(),
		handlers.ExportGroupMisses)
}
