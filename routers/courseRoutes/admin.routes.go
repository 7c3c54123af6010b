package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/repository"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up media upload and reporting routes
func SetupAdminRoutes(app fiber.Router, uploads *controllers.UploadController, reports *controllers.ReportController, perms repository.PermissionRepository) {
	app.Post("/uploads", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(perms, models.PermUploadMedia), uploads.UploadVideo)

	adminGroup := app.Group("/admin", middleware.JWTMiddleware)
	adminGroup.Get("/reports/progress", middleware.CheckPermissionMiddleware(perms, models.PermViewReports), reports.ProgressReport)
}
