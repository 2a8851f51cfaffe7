package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weekly-planner/internal/app"
	"weekly-planner/internal/clipper"
	"weekly-planner/internal/config"
	"weekly-planner/internal/database"
	"weekly-planner/internal/grocery"
	"weekly-planner/internal/i18n"
	"weekly-planner/internal/llm"
	"weekly-planner/internal/menu"
	"weekly-planner/internal/metrics"
	"weekly-planner/internal/planner"
	"weekly-planner/internal/recipe"
	"weekly-planner/internal/rules"
	"weekly-planner/internal/server"
	"weekly-planner/internal/settings"

	"github.com/joho/godotenv"
)

// metricsRetentionDays is how long execution metrics are kept.
const metricsRetentionDays = 90

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// LLM client
	var textGen llm.TextGenerator
	switch cfg.LLMProvider {
	case config.ProviderGroq:
		textGen = llm.NewGroqClient(cfg)
	default:
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := geminiClient.(llm.Closer); ok {
			defer closer.Close()
		}
		textGen = geminiClient
	}

	// Database and repositories
	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	weekRepo := menu.NewWeekRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	rulesRepo := rules.NewRepository(db.SQL)
	storeMapRepo := grocery.NewStoreMapRepository(db.SQL)
	settingsRepo := settings.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// Services
	book := recipe.NewBook(recipeRepo)
	rulesSvc := rules.NewService(rulesRepo)
	mealPlanner := planner.NewPlanner(textGen)
	recipeClipper := clipper.NewClipper(textGen)

	language := i18n.ParseLanguage(cfg.DefaultLanguage)

	application := app.New(weekRepo, book, rulesSvc, storeMapRepo, settingsRepo, mealPlanner, recipeClipper, metricsStore, language)
	if err := application.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap application: %v", err)
	}

	// Prune old execution metrics at boot and once a day after that.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			if removed, err := metricsStore.Cleanup(ctx, metricsRetentionDays); err != nil {
				log.Printf("Failed to clean up metrics: %v", err)
			} else if removed > 0 {
				log.Printf("Removed %d execution metrics older than %d days", removed, metricsRetentionDays)
			}
			<-ticker.C
		}
	}()

	srv := server.New(cfg.HTTPAddr, application, metricsStore, cfg.DBPath, cfg.CORSOrigins)

	go func() {
		log.Printf("Weekly planner listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
