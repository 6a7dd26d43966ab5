package main

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/edukit/quizdesk/apperrors"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundaryApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/duplicate", func(c *fiber.Ctx) error { return apperrors.ErrDuplicateSubmission })
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return apperrors.NewValidation("correct answer index %d is out of bounds for %d options", 5, 2)
	})
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NewNotFound("Quiz") })
	app.Get("/broken", func(c *fiber.Ctx) error {
		return apperrors.NewStorage(errors.New("pq: connection refused"))
	})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.ErrTeapot })
	return app
}

func boundaryResponse(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandlerTranslatesTaxonomy(t *testing.T) {
	app := boundaryApp()

	code, body := boundaryResponse(t, app, "/duplicate")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Quiz already submitted by this student", body["message"])

	code, body = boundaryResponse(t, app, "/invalid")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body["message"], "out of bounds")

	code, body = boundaryResponse(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "Quiz not found", body["message"])

	code, _ = boundaryResponse(t, app, "/teapot")
	assert.Equal(t, fiber.StatusTeapot, code)
}

func TestErrorHandlerHidesStorageDetailInProduction(t *testing.T) {
	app := boundaryApp()

	t.Setenv("APP_ENV", "")
	code, body := boundaryResponse(t, app, "/broken")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Contains(t, body["message"], "connection refused")

	t.Setenv("APP_ENV", "production")
	code, body = boundaryResponse(t, app, "/broken")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Something went wrong", body["message"])
}
