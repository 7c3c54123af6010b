package courseValidator

import (
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

// ProgressRequest is shared by the completion, attempt and quiz routes.
// Score is only read on attempts and Answers only on quiz submissions.
type ProgressRequest struct {
	UserID   string `json:"user_id" validate:"required,notblank"`
	LessonID string `json:"lesson_id" validate:"required,notblank"`
	Score    *int   `json:"score,omitempty"`
	Answers  []int  `json:"answers,omitempty"`
}

// MarkCompleted validates POST /progress
func MarkCompleted() fiber.Handler {
	return progress(func(req *ProgressRequest, errors map[string]string) {})
}

// RecordAttempt validates POST /progress/attempt
func RecordAttempt() fiber.Handler {
	return progress(func(req *ProgressRequest, errors map[string]string) {
		if req.Score == nil {
			errors["score"] = "score is required!"
		} else if *req.Score < 0 {
			errors["score"] = "score must be at least 0!"
		}
	})
}

// SubmitQuiz validates POST /progress/quiz
func SubmitQuiz() fiber.Handler {
	return progress(func(req *ProgressRequest, errors map[string]string) {
		if req.Answers == nil {
			errors["answers"] = "answers is required!"
		}
	})
}

func progress(extra func(req *ProgressRequest, errors map[string]string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Check(reqData)
		extra(reqData, errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
