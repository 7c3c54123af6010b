package authRoutes

import (
	authControllers "lms/controllers/auth"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers the only unauthenticated business route
func SetupAuthRoutes(app fiber.Router, ctrl *authControllers.AuthController) {
	app.Post("/users/login", authValidators.Login(), ctrl.Login)
}
