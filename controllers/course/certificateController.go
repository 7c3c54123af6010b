package controllers

import (
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// ListCertificates returns every certificate, or one user's with ?user_id=.
// Listing other users needs view-progress.
func (pc *ProgressController) ListCertificates(c *fiber.Ctx) error {
	userID := c.Query("user_id")

	allowed, err := middleware.ActingFor(c, pc.perms, userID, models.PermViewProgress)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	certs, err := pc.progress.Certificates(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch certificates!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}

func (pc *ProgressController) UserCertificates(c *fiber.Ctx) error {
	certs, err := pc.progress.Certificates(c.UserContext(), c.Params("userId"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch certificates!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}
