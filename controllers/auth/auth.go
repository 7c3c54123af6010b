package authController

import (
	"lms/middleware"
	"lms/services"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login relays the credentials to the identity provider and returns a local access token
func (ac *AuthController) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := ac.auth.Login(c.UserContext(), reqData.Username, reqData.Password, services.LoginMeta{
		IP:     c.IP(),
		Device: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Login failed!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", result)
}
