package main

import (
	"errors"

	"lms/config"
	authControllers "lms/controllers/auth"
	courseControllers "lms/controllers/course"
	userControllers "lms/controllers/userControllers"
	"lms/middleware"
	"lms/repository"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	userProfileRoutes "lms/routers/userRoutes"
	"lms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// appDeps are the outside collaborators of the HTTP application
type appDeps struct {
	Store    repository.Store
	Identity services.Authenticator
	Video    services.VideoHost
	Notifier services.CertificateNotifier
}

type application struct {
	http     *fiber.App
	progress *services.ProgressService
}

func newApplication(cfg *config.Config, deps appDeps) *application {
	courses := services.NewCourseService(deps.Store)
	progress := services.NewProgressService(deps.Store, cfg.XPCourseBonus, deps.Notifier)
	users := services.NewUserService(deps.Store, cfg.RankingLimit)
	quizzes := services.NewQuizService(deps.Store)
	auth := services.NewAuthService(deps.Store, deps.Identity, middleware.GenerateJWT, cfg.IsAdminUser)
	uploads := services.NewUploadService(deps.Video)
	reports := services.NewReportService(deps.Store)

	// the file store keeps route params and headers after the request ends
	app := fiber.New(fiber.Config{
		Immutable:    true,
		BodyLimit:    services.MaxUploadSize,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	perms := deps.Store.Permissions()
	courseController := courseControllers.NewCourseController(courses)

	// login must be registered before the authenticated /users group
	authRoutes.SetupAuthRoutes(app, authControllers.NewAuthController(auth))
	userProfileRoutes.SetupUserRoutes(app, userControllers.NewUserController(users), courseController, perms)
	courseRoutes.SetupCourseRoutes(app, courseController, perms)
	courseRoutes.SetupQuizRoutes(app, courseControllers.NewQuizController(quizzes), perms)
	courseRoutes.SetupProgressRoutes(app, courseControllers.NewProgressController(progress, perms), perms)
	courseRoutes.SetupAdminRoutes(app, courseControllers.NewUploadController(uploads), courseControllers.NewReportController(reports), perms)

	return &application{http: app, progress: progress}
}

// errorHandler keeps fiber's own errors (unknown route, body too large) in the response envelope
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}
