package routes

import (
	"github.com/edukit/quizdesk/handlers"
	"github.com/edukit/quizdesk/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	app.Use("/ws", handlers.UpgradeRequired)
	app.Get("/ws/notifications", middleware.Protected(), handlers.NotificationSocket())
}
