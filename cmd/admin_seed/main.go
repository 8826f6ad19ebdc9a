package main

import (
	"context"
	"log"
	"os"

	"mutralo/internal/config"
	"mutralo/internal/models"
	"mutralo/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	ctx := context.Background()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := repositories.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repositories.Close(db)

	// The settings row is written once so that admins see the defaults
	// they are editing.
	settingsRepo := repositories.NewSettingsRepository(db)
	current, err := settingsRepo.Get(ctx)
	if err != nil {
		log.Fatalf("Failed to read settings: %v", err)
	}
	if current.UpdatedAt.IsZero() {
		if err := settingsRepo.Save(ctx, current); err != nil {
			log.Fatalf("Failed to seed settings: %v", err)
		}
		log.Println("✅ Default settings stored")
	}

	users := repositories.NewUserRepository(db, nil)
	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		log.Println("Admin user already exists")
		return
	} else if !repositories.IsNotFound(err) {
		log.Fatalf("Failed to look up admin user: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		FirstName:    config.GetEnv("ADMIN_FIRST_NAME", "Admin"),
		LastName:     config.GetEnv("ADMIN_LAST_NAME", "Mutralo"),
		Phone:        os.Getenv("ADMIN_PHONE"),
		Role:         models.RoleAdmin,
		Active:       true,
		TokenVersion: 1,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Admin account created successfully!")
}
