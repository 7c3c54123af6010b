package controllers

import (
	"lms/middleware"
	"lms/models"
	"lms/repository"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	progress *services.ProgressService
	perms    repository.PermissionRepository
}

func NewProgressController(progress *services.ProgressService, perms repository.PermissionRepository) *ProgressController {
	return &ProgressController{progress: progress, perms: perms}
}

// validatedFor returns the validated body once the caller is allowed to write progress for its user
func (pc *ProgressController) validatedFor(c *fiber.Ctx) (*courseValidator.ProgressRequest, error) {
	reqData, ok := c.Locals("validatedProgress").(*courseValidator.ProgressRequest)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	allowed, err := middleware.ActingFor(c, pc.perms, reqData.UserID, models.PermManageUsers)
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
	}
	if !allowed {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only record your own progress!", nil)
	}
	return reqData, nil
}

// MarkCompleted completes a lesson regardless of score
func (pc *ProgressController) MarkCompleted(c *fiber.Ctx) error {
	reqData, err := pc.validatedFor(c)
	if reqData == nil {
		return err
	}

	result, err := pc.progress.MarkCompleted(c.UserContext(), reqData.UserID, reqData.LessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update progress!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", result)
}

func (pc *ProgressController) RecordAttempt(c *fiber.Ctx) error {
	reqData, err := pc.validatedFor(c)
	if reqData == nil {
		return err
	}

	result, err := pc.progress.RecordAttempt(c.UserContext(), reqData.UserID, reqData.LessonID, *reqData.Score, false)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to record attempt!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt recorded successfully!", result)
}

// SubmitQuiz grades the answers server side before recording the attempt
func (pc *ProgressController) SubmitQuiz(c *fiber.Ctx) error {
	reqData, err := pc.validatedFor(c)
	if reqData == nil {
		return err
	}

	result, err := pc.progress.SubmitQuiz(c.UserContext(), reqData.UserID, reqData.LessonID, reqData.Answers)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to submit quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", result)
}

func (pc *ProgressController) ListProgress(c *fiber.Ctx) error {
	rows, err := pc.progress.ListAll(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch progress!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", rows)
}

func (pc *ProgressController) UserProgress(c *fiber.Ctx) error {
	rows, err := pc.progress.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch progress!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", rows)
}
