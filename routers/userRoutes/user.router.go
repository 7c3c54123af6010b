package userProfileRoutes

import (
	courseControllers "lms/controllers/course"
	userControllers "lms/controllers/userControllers"
	"lms/middleware"
	"lms/models"
	"lms/repository"
	"lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app fiber.Router, users *userControllers.UserController, courses *courseControllers.CourseController, perms repository.PermissionRepository) {
	manageUsers := middleware.CheckPermissionMiddleware(perms, models.PermManageUsers)

	userGroup := app.Group("/users", middleware.JWTMiddleware)

	userGroup.Get("/", manageUsers, users.ListUsers)
	userGroup.Post("/", manageUsers, userValidator.CreateUser(), users.CreateUser)
	userGroup.Get("/ranking", userValidator.Ranking(), users.Ranking)
	userGroup.Get("/:id", users.GetUser)
	userGroup.Delete("/:id", manageUsers, users.DeleteUser)
	userGroup.Post("/:id/xp", manageUsers, userValidator.UpdateXP(), users.UpdateXP)
	userGroup.Post("/:id/category", middleware.SelfOrPermission(perms, "id", models.PermManageUsers), userValidator.SetCategory(), users.SetCategory)
	userGroup.Get("/:id/courses", courses.UserCourses)
	userGroup.Get("/:id/logins", manageUsers, users.LoginHistory)
}
