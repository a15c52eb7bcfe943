package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fitness/internal/clients"
	"fitness/internal/config"
	"fitness/internal/database"
	"fitness/internal/models"
	"fitness/internal/repositories"
	"fitness/internal/server"
	"fitness/internal/services"
	"fitness/internal/worker"
	"fitness/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load(":8083")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg, &models.Recommendation{})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	var recRepo repositories.RecommendationRepository
	if db != nil {
		recRepo = repositories.NewGORMRecommendationRepository(db)
	} else {
		recRepo = repositories.NewMemoryRecommendationRepository()
	}

	gemini := clients.NewGeminiClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiTimeout)
	recService := services.NewRecommendationService(recRepo, gemini)

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:        cfg.RabbitMQURL,
		Exchange:   cfg.RabbitMQExchange,
		Queue:      cfg.RabbitMQQueue,
		RoutingKey: cfg.RabbitMQRoutingKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recWorker := worker.NewRecommendationWorker(recService)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		log.Printf("Starting recommendation worker with %d consumers...", cfg.WorkerConcurrency)
		if err := mqClient.Consume(ctx, cfg.WorkerConcurrency, recWorker.Handle); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Recommendation worker stopped: %v", err)
		}
	}()

	app := server.NewAIApp(recService)

	log.Printf("Starting AI service on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down AI service...")
	cancel()
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	// In-flight recommendations finish before the broker connection closes.
	<-consumerDone
	log.Println("AI service gracefully stopped")
}
