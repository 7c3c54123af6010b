package controllers

import (
	"lms/middleware"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

type CourseController struct {
	courses *services.CourseService
}

func NewCourseController(courses *services.CourseService) *CourseController {
	return &CourseController{courses: courses}
}

func courseInput(req *courseValidator.CourseRequest) services.CourseInput {
	return services.CourseInput{Title: req.Title, Description: req.Description, Categories: req.Categories}
}

// ListCourses returns the whole catalog with modules and lessons in order
func (cc *CourseController) ListCourses(c *fiber.Ctx) error {
	courses, err := cc.courses.List(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch courses!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (cc *CourseController) GetCourse(c *fiber.Ctx) error {
	course, err := cc.courses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := cc.courses.Create(c.UserContext(), courseInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create course!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (cc *CourseController) UpdateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := cc.courses.Update(c.UserContext(), c.Params("id"), courseInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes the course with its modules and lessons
func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	if err := cc.courses.Delete(c.UserContext(), c.Params("id")); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
