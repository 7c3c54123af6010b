package userController

import (
	"lms/middleware"
	"lms/services"
	"lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := uc.users.List(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch users!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

func (uc *UserController) GetUser(c *fiber.Ctx) error {
	user, err := uc.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch user!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// CreateUser registers a local user without going through the identity provider
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*userValidator.CreateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := uc.users.Create(c.UserContext(), services.UserInput{
		ID:       reqData.ID,
		Name:     reqData.Name,
		Email:    reqData.Email,
		Avatar:   reqData.Avatar,
		Role:     reqData.Role,
		Title:    reqData.Title,
		Category: reqData.Category,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create user!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully!", user)
}

// DeleteUser removes the user with its progress, certificates and permissions
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	if err := uc.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete user!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

func (uc *UserController) UpdateXP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedXP").(*userValidator.XPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := uc.users.UpdateXP(c.UserContext(), c.Params("id"), *reqData.Amount)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update XP!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "XP updated successfully!", user)
}

func (uc *UserController) SetCategory(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCategory").(*userValidator.CategoryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := uc.users.SetCategory(c.UserContext(), c.Params("id"), reqData.Category)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update category!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category updated successfully!", user)
}

// Ranking lists users by XP; without ?limit= the configured default applies
func (uc *UserController) Ranking(c *fiber.Ctx) error {
	limit := -1
	if reqData, ok := c.Locals("validatedRanking").(*userValidator.RankingQuery); ok && reqData.Limit != nil {
		limit = *reqData.Limit
	}

	users, err := uc.users.Ranking(c.UserContext(), limit)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch ranking!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ranking fetched successfully!", users)
}

func (uc *UserController) LoginHistory(c *fiber.Ctx) error {
	logins, err := uc.users.Logins(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch login history!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully!", logins)
}
