package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	"lms/repository"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog tree routes; every write needs manage-courses
func SetupCourseRoutes(app fiber.Router, ctrl *controllers.CourseController, perms repository.PermissionRepository) {
	manage := middleware.CheckPermissionMiddleware(perms, models.PermManageCourses)

	courseGroup := app.Group("/courses", middleware.JWTMiddleware)

	// Course CRUD
	courseGroup.Get("/", ctrl.ListCourses)
	courseGroup.Get("/:id", ctrl.GetCourse)
	courseGroup.Post("/", manage, validators.CreateCourse(), ctrl.CreateCourse)
	courseGroup.Put("/:id", manage, validators.CreateCourse(), ctrl.UpdateCourse)
	courseGroup.Delete("/:id", manage, ctrl.DeleteCourse)

	// Module Management
	courseGroup.Post("/:id/modules", manage, validators.CreateModule(), ctrl.CreateModule)
	courseGroup.Patch("/:id/modules/reorder", manage, validators.Reorder(), ctrl.ReorderModules)
	courseGroup.Put("/:id/modules/:moduleId", manage, validators.CreateModule(), ctrl.UpdateModule)
	courseGroup.Delete("/:id/modules/:moduleId", manage, ctrl.DeleteModule)

	// Lesson Management
	courseGroup.Post("/:id/modules/:moduleId/lessons", manage, validators.CreateLesson(), ctrl.CreateLesson)
	courseGroup.Patch("/:id/modules/:moduleId/lessons/reorder", manage, validators.Reorder(), ctrl.ReorderLessons)
	courseGroup.Put("/:id/modules/:moduleId/lessons/:lessonId", manage, validators.CreateLesson(), ctrl.UpdateLesson)
	courseGroup.Delete("/:id/modules/:moduleId/lessons/:lessonId", manage, ctrl.DeleteLesson)
}

func SetupQuizRoutes(app fiber.Router, ctrl *controllers.QuizController, perms repository.PermissionRepository) {
	quizGroup := app.Group("/quizzes", middleware.JWTMiddleware)

	quizGroup.Get("/", ctrl.ListQuizzes)
	quizGroup.Get("/:id", ctrl.GetQuiz)
	quizGroup.Post("/", middleware.CheckPermissionMiddleware(perms, models.PermManageQuizzes), validators.CreateQuiz(), ctrl.CreateQuiz)
}
