package main

import (
	"context"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/scheduler"
	"lms/utils"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	store, err := database.ConnectDb(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database! %v", err)
	}
	log.Println("Connected to the database successfully!")

	flussonic := utils.NewFlussonicClient(utils.FlussonicConfig{
		URL:      cfg.FlussonicURL,
		User:     cfg.FlussonicUser,
		Password: cfg.FlussonicPassword,
		VODName:  cfg.FlussonicVODName,
	})
	if len(cfg.FlussonicCORSOrigins) > 0 && flussonic.Configured() {
		if err := flussonic.ConfigureCORS(ctx, cfg.FlussonicCORSOrigins); err != nil {
			log.Printf("[UPLOAD] Failed to configure Flussonic CORS: %v", err)
		}
	}

	mailer := utils.NewMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	if !mailer.Enabled() {
		log.Println("Warning: SENDGRID_API_KEY or EMAIL_SENDER not set. Certificate e-mails are disabled.")
	}

	app := newApplication(cfg, appDeps{
		Store:    store,
		Identity: utils.NewIdentityClient(cfg.AuthAPIURL, time.Duration(cfg.AuthTimeoutSeconds)*time.Second),
		Video:    flussonic,
		Notifier: mailer,
	})

	sweeper, err := scheduler.InitializeCertificateScheduler(cfg.SweepSchedule, app.progress)
	if err != nil {
		log.Fatalf("Failed to start certificate scheduler! %v", err)
	}
	defer sweeper.Stop()

	log.Printf("Server is running on port %s", cfg.Port)
	if err := app.http.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
