package routes

import (
	"github.com/edukit/quizdesk/handlers"
	"github.com/edukit/quizdesk/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	quizzes := api.Group("/quizzes", middleware.Protected())
	quizzes.Get("", handlers.ListQuizzes)
	quizzes.Get("/:quizId", handlers.GetQuiz)
	quizzes.Post("", middleware.TeacherOrAdminRequired(), handlers.CreateQuiz)
	quizzes.Patch("/:quizId", middleware.TeacherOrAdminRequired(), handlers.UpdateQuiz)
	quizzes.Delete("/:quizId", middleware.TeacherOrAdminRequired(), handlers.DeleteQuiz)

	quizzes.Get("/:quizId/questions", handlers.ListQuizQuestions)
	quizzes.Get("/:quizId/answers", middleware.TeacherOrAdminRequired(), handlers.GetQuizAnswers)

	questions := api.Group("/questions", middleware.Protected(), middleware.TeacherOrAdminRequired())
	questions.Post("", handlers.CreateQuestion)
	questions.Delete("/:questionId", handlers.DeleteQuestion)

	answers := api.Group("/answers", middleware.Protected())
	answers.Post("", handlers.SubmitAnswers)
}
