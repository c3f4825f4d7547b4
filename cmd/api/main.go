package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"datakiln/adapters/advisor"
	"datakiln/adapters/api"
	"datakiln/adapters/excel"
	"datakiln/app"
	"datakiln/internal/config"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	cleaning := app.NewCleaningService(advisor.NewHeuristic(), cfg.Engine.OneHotMaxCategories)
	server := api.NewServer(cfg, excel.NewDataReader(), cleaning, app.NewAnalysisService())

	log.Printf("datakiln API listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, server.Handler()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
