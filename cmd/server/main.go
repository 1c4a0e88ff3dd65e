package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/D-E-STUDIOS/mindweave-agenda/config"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/ai"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/api"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/brain"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/database"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/notes"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/projects"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/slackbridge"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/tasks"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🚀 Mindweave Agenda starting...")

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context
	ctx := context.Background()

	// Connect to database
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create tables
	if err := db.CreateTables(ctx); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Create repositories
	noteRepo := database.NewNoteRepository(db)
	taskRepo := database.NewTaskRepository(db)
	projectRepo := database.NewProjectRepository(db)

	// AI gateway client
	aiClient := ai.NewClient(cfg.AIGatewayURL, cfg.AIGatewayKey, cfg.AIModel)

	// Domain services
	coordinator := notes.NewCoordinator(aiClient, noteRepo, taskRepo)
	taskSvc := tasks.NewService(taskRepo)
	projectSvc := projects.NewService(projectRepo)
	engine := brain.NewEngine(aiClient)

	// HTTP surface
	mux := http.NewServeMux()
	apiServer := api.NewServer(coordinator, taskSvc, projectSvc, engine, noteRepo, taskRepo, projectRepo)
	apiServer.Register(mux)

	if cfg.SlackEnabled() {
		bridge, err := slackbridge.New(cfg.SlackToken, cfg.SlackSigningSecret, cfg.SlackOwnerID, coordinator)
		if err != nil {
			log.Fatalf("Failed to start Slack bridge: %v", err)
		}
		bridge.Register(mux)
	}

	go func() {
		log.Printf("🚀 API server listening on port %s", cfg.Port)
		log.Printf("🏥 Health check: http://localhost:%s/health", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("✅ System initialized successfully")
	log.Println("📊 Database: Connected and ready")
	log.Println("🤖 AI gateway: note analysis & brain insights active")
	log.Println("")
	log.Println("Server is running. Press Ctrl+C to stop...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
}
