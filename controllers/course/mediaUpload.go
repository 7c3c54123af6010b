package controllers

import (
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// UploadVideo relays the multipart "file" field to the video host
func (uc *UploadController) UploadVideo(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	url, err := uc.uploads.Upload(c.UserContext(), file)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to upload video!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video uploaded successfully!", fiber.Map{"url": url})
}
