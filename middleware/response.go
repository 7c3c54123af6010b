package middleware

import (
	"errors"
	"log"

	"lms/repository"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse maps a service or repository error onto the response envelope.
// fallback is the message used for unexpected errors.
func ErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	status, message := classify(err)
	if message == "" {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		message = fallback
	}
	return JsonResponse(c, status, false, message, nil)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound, "Not found!"
	case errors.Is(err, repository.ErrDuplicate):
		return fiber.StatusConflict, "Already exists!"
	case errors.Is(err, repository.ErrInvalidOrder):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrAuthFailed):
		return fiber.StatusUnauthorized, "Invalid username or password!"
	case errors.Is(err, services.ErrNoQuiz):
		return fiber.StatusBadRequest, "Lesson has no quiz!"
	case errors.Is(err, services.ErrUploadNotConfigured):
		return fiber.StatusInternalServerError, services.ErrUploadNotConfigured.Error()
	case errors.Is(err, services.ErrUploadFailed):
		return fiber.StatusBadGateway, "Failed to upload video!"
	}
	return fiber.StatusInternalServerError, ""
}
