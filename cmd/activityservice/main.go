package main

import (
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
	"fitness/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load(":8082")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg, &models.Activity{})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	var activityRepo repositories.ActivityRepository
	if db != nil {
		activityRepo = repositories.NewGORMActivityRepository(db)
	} else {
		activityRepo = repositories.NewMemoryActivityRepository()
	}

	// Activities are still accepted while the broker is down; events are skipped.
	var publisher services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:        cfg.RabbitMQURL,
		Exchange:   cfg.RabbitMQExchange,
		Queue:      cfg.RabbitMQQueue,
		RoutingKey: cfg.RabbitMQRoutingKey,
	})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, activity events disabled: %v", err)
	} else {
		defer mqClient.Close()
		publisher = mqClient
	}

	userClient := clients.NewUserClient(cfg.UserServiceURL, cfg.UserValidationTimeout)
	activityService := services.NewActivityService(activityRepo, userClient, publisher, services.ActivityEvents{
		CreatedRoutingKey: cfg.RabbitMQRoutingKey,
		DeletedRoutingKey: cfg.RabbitMQDeletedRoutingKey,
	})

	app := server.NewActivityApp(activityService)

	log.Printf("Starting activity service on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down activity service...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Activity service gracefully stopped")
}
