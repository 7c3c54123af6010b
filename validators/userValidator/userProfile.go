package userValidator

import (
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateUserRequest struct {
	ID       string `json:"id" validate:"omitempty,max=191"`
	Name     string `json:"name" validate:"required,notblank,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Avatar   string `json:"avatar" validate:"omitempty,max=2048"`
	Role     string `json:"role" validate:"omitempty,oneof=admin student"`
	Title    string `json:"title" validate:"omitempty,max=100"`
	Category string `json:"category" validate:"omitempty,max=100"`
}

type XPRequest struct {
	Amount *int `json:"amount" validate:"required"`
}

type CategoryRequest struct {
	Category string `json:"category" validate:"max=100"`
}

type RankingQuery struct {
	Limit *int `query:"limit" validate:"omitempty,gte=0,lte=1000"`
}

func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

func UpdateXP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(XPRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedXP", reqData)
		return c.Next()
	}
}

func SetCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CategoryRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}

func Ranking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RankingQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRanking", reqData)
		return c.Next()
	}
}
