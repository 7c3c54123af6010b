package controllers

import (
	"fmt"
	"time"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// ProgressReport streams the ranking, progress and certificate sheets as one workbook
func (rc *ReportController) ProgressReport(c *fiber.Ctx) error {
	buf, err := rc.reports.ProgressWorkbook(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to build report!")
	}

	name := fmt.Sprintf("progress-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
