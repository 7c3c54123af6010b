package controllers

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// UserCourses returns the catalog filtered by the user's category
func (cc *CourseController) UserCourses(c *fiber.Ctx) error {
	courses, err := cc.courses.CoursesForUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch courses!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
