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
)

func main() {
	cfg, err := config.Load(":8081")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg, &models.User{})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	var userRepo repositories.UserRepository
	if db != nil {
		userRepo = repositories.NewGORMUserRepository(db)
	} else {
		userRepo = repositories.NewMemoryUserRepository()
	}

	keycloak := clients.NewKeycloakClient(clients.KeycloakConfig{
		ServerURL:     cfg.KeycloakURL,
		Realm:         cfg.KeycloakRealm,
		ClientID:      cfg.KeycloakClientID,
		AdminUsername: cfg.KeycloakAdminUsername,
		AdminPassword: cfg.KeycloakAdminPassword,
		Timeout:       cfg.KeycloakTimeout,
	})

	app := server.NewUserApp(services.NewUserService(userRepo), keycloak)

	log.Printf("Starting user service on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down user service...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("User service gracefully stopped")
}
