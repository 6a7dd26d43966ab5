package routes

import (
	"github.com/edukit/quizdesk/handlers"
	"github.com/edukit/quizdesk/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Post("/:quizId/start", handlers.StartQuizSession)
	sessions.Get("/:quizId", handlers.GetQuizSession)
	sessions.Post("/:quizId/view", handlers.ViewSessionQuestion)
	sessions.Post("/:quizId/answer", handlers.RecordSessionAnswer)
	sessions.Post("/:quizId/submit", handlers.SubmitQuizSession)
}
