package courseValidator

import (
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type LessonRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	VideoURL *string `json:"video_url" validate:"omitempty,max=2048"`
	Content  *string `json:"content"`
	QuizID   *string `json:"quiz_id" validate:"omitempty,max=64"`
}

type QuestionRequest struct {
	Text               string   `json:"text" validate:"required,notblank"`
	Options            []string `json:"options" validate:"required,len=3,dive,notblank"`
	CorrectOptionIndex *int     `json:"correct_option_index" validate:"required,gte=0,lte=2"`
}

type QuizRequest struct {
	Title     string            `json:"title" validate:"required,notblank,max=200"`
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)
		if err := validators.ParseBody(c, reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}
