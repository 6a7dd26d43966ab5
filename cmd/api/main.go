package main

import (
	"errors"
	"log"
	"time"

	"github.com/edukit/quizdesk/apperrors"
	config "github.com/edukit/quizdesk/configs"
	"github.com/edukit/quizdesk/database"
	"github.com/edukit/quizdesk/jobs"
	"github.com/edukit/quizdesk/notifications"
	"github.com/edukit/quizdesk/routes"
	"github.com/edukit/quizdesk/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	// Required configuration dies here, not on first request.
	config.MustConfig("DATABASE_URL")
	config.MustConfig("JWT_SECRET")

	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()
	notifications.InitEventPublisher()

	c := cron.New()
	c.AddFunc("* * * * *", jobs.ExpireStaleSessions)
	c.AddFunc("0 7 * * 1", jobs.SendAttendanceDigests)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Quizdesk",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler:      errorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Quizdesk API",
		})
	})

	routes.AuthRoutes(app)
	routes.QuizRoutes(app)
	routes.SessionRoutes(app)
	routes.AttendanceRoutes(app)
	routes.GroupRoutes(app)
	routes.NotificationRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

// errorHandler translates anything that escapes a handler into the error
// taxonomy. Storage detail only leaves the process outside production.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var fiberErr *fiber.Error
	var validationErr *apperrors.ValidationError
	var notFoundErr *apperrors.NotFoundError
	var storageErr *apperrors.StorageError

	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, apperrors.ErrDuplicateSubmission):
		code = fiber.StatusBadRequest
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
	case errors.As(err, &notFoundErr):
		code = fiber.StatusNotFound
	case errors.As(err, &storageErr):
		code = fiber.StatusInternalServerError
		message = "Something went wrong"
		if !config.IsProduction() {
			message = storageErr.Error()
		}
	}

	log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}
