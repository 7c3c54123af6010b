package controllers

import (
	"lms/middleware"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

type QuizController struct {
	quizzes *services.QuizService
}

func NewQuizController(quizzes *services.QuizService) *QuizController {
	return &QuizController{quizzes: quizzes}
}

func (qc *QuizController) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := qc.quizzes.List(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch quizzes!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

func (qc *QuizController) GetQuiz(c *fiber.Ctx) error {
	quiz, err := qc.quizzes.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

func (qc *QuizController) CreateQuiz(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	questions := make([]services.QuestionInput, 0, len(reqData.Questions))
	for _, q := range reqData.Questions {
		questions = append(questions, services.QuestionInput{
			Text:               q.Text,
			Options:            q.Options,
			CorrectOptionIndex: *q.CorrectOptionIndex,
		})
	}

	quiz, err := qc.quizzes.Create(c.UserContext(), reqData.Title, questions)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}
