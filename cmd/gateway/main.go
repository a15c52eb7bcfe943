package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"fitness/internal/clients"
	"fitness/internal/config"
	"fitness/internal/gateway"
)

func main() {
	cfg, err := config.Load(":8080")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	directory := clients.NewUserClient(cfg.UserServiceURL, cfg.UserValidationTimeout)
	app := gateway.New(gateway.Config{
		UserServiceURL:          cfg.UserServiceURL,
		ActivityServiceURL:      cfg.ActivityServiceURL,
		AIServiceURL:            cfg.AIServiceURL,
		JWTSecret:               cfg.JWTSecret,
		SyncPlaceholderPassword: cfg.SyncPlaceholderPassword,
	}, directory)

	log.Printf("Starting gateway on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down gateway...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Gateway gracefully stopped")
}
