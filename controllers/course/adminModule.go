package controllers

import (
	"lms/middleware"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (cc *CourseController) CreateModule(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module, err := cc.courses.CreateModule(c.UserContext(), c.Params("id"), services.ModuleInput{
		Title:       reqData.Title,
		Description: reqData.Description,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create module!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

func (cc *CourseController) UpdateModule(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module, err := cc.courses.UpdateModule(c.UserContext(), c.Params("id"), c.Params("moduleId"), services.ModuleInput{
		Title:       reqData.Title,
		Description: reqData.Description,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update module!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

func (cc *CourseController) DeleteModule(c *fiber.Ctx) error {
	if err := cc.courses.DeleteModule(c.UserContext(), c.Params("id"), c.Params("moduleId")); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete module!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// ReorderModules returns the course with its modules in the new order
func (cc *CourseController) ReorderModules(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOrder").(*courseValidator.ReorderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := cc.courses.ReorderModules(c.UserContext(), c.Params("id"), reqData.IDs)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to reorder modules!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", course)
}
