package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/repository"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up lesson progress and certificate routes.
// Writes for another user are checked by the controller against manage-users.
func SetupProgressRoutes(app fiber.Router, ctrl *controllers.ProgressController, perms repository.PermissionRepository) {
	selfOrViewer := middleware.SelfOrPermission(perms, "userId", models.PermViewProgress)

	progressGroup := app.Group("/progress", middleware.JWTMiddleware)
	progressGroup.Get("/", middleware.CheckPermissionMiddleware(perms, models.PermViewProgress), ctrl.ListProgress)
	progressGroup.Post("/", validators.MarkCompleted(), ctrl.MarkCompleted)
	progressGroup.Post("/attempt", validators.RecordAttempt(), ctrl.RecordAttempt)
	progressGroup.Post("/quiz", validators.SubmitQuiz(), ctrl.SubmitQuiz)
	progressGroup.Get("/:userId", selfOrViewer, ctrl.UserProgress)

	certGroup := app.Group("/certificates", middleware.JWTMiddleware)
	certGroup.Get("/", ctrl.ListCertificates)
	certGroup.Get("/:userId", selfOrViewer, ctrl.UserCertificates)
}
