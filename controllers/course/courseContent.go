package controllers

import (
	"lms/middleware"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func lessonInput(req *courseValidator.LessonRequest) services.LessonInput {
	return services.LessonInput{Title: req.Title, VideoURL: req.VideoURL, Content: req.Content, QuizID: req.QuizID}
}

func (cc *CourseController) CreateLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson, err := cc.courses.CreateLesson(c.UserContext(), c.Params("id"), c.Params("moduleId"), lessonInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

func (cc *CourseController) UpdateLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson, err := cc.courses.UpdateLesson(c.UserContext(), c.Params("id"), c.Params("moduleId"), c.Params("lessonId"), lessonInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func (cc *CourseController) DeleteLesson(c *fiber.Ctx) error {
	if err := cc.courses.DeleteLesson(c.UserContext(), c.Params("id"), c.Params("moduleId"), c.Params("lessonId")); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// ReorderLessons returns the module with its lessons in the new order
func (cc *CourseController) ReorderLessons(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOrder").(*courseValidator.ReorderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module, err := cc.courses.ReorderLessons(c.UserContext(), c.Params("id"), c.Params("moduleId"), reqData.IDs)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to reorder lessons!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons reordered successfully!", module)
}
