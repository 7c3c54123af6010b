package main

import (
	"context"
	"flag"
	"log"

	"lms/config"
	"lms/database"
	"lms/repository"
)

// Copies a JSON file store into the SQL database selected by DB_DRIVER.
//
//	go run ./scripts -data ./data
func main() {
	cfg := config.LoadConfig()
	dataDir := flag.String("data", cfg.DataDir, "directory holding the JSON collections")
	flag.Parse()

	if cfg.DBDriver == "file" {
		log.Fatal("DB_DRIVER must name a SQL database to import into")
	}

	ctx := context.Background()

	src, err := repository.NewFileStore(*dataDir)
	if err != nil {
		log.Fatalf("Failed to open file store: %v", err)
	}

	dst, err := database.ConnectDb(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database! %v", err)
	}

	log.Printf("Importing %s into %s...", *dataDir, cfg.DBDriver)
	stats, err := database.ImportStore(ctx, src, dst)
	if err != nil {
		log.Fatalf("Import failed: %v (%s)", err, stats)
	}
	log.Printf("Import completed: %s", stats)
}
