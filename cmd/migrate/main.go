// This file is used to run database migrations
// How to run:
// go run cmd/migrate/main.go              # Apply the schema
// go run cmd/migrate/main.go -seed        # Apply the schema and seed a default manager
package main

import (
	"flag"
	"log"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/config"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

func main() {
	// .env is optional; env vars may come from the environment directly
	_ = godotenv.Load()

	seed := flag.Bool("seed", false, "Seed a default manager account after migrating")
	flag.Parse()

	dbPort, err := strconv.Atoi(config.GetEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid DB_PORT: %v", err)
	}
	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", db.DefaultHost),
		User:     config.GetEnv("DB_USER", db.DefaultUser),
		Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     dbPort,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// db.New runs the schema migration on connect
	log.Println("Migration completed")

	if *seed {
		if err := seedManager(database); err != nil {
			log.Fatalf("failed to seed manager: %v", err)
		}
		log.Println("Seeded default manager account")
	}
}

func seedManager(database *gorm.DB) error {
	manager := models.User{
		Name:  "Default Manager",
		Email: "manager@example.com",
		Role:  models.UserRoleManager,
	}
	return database.Where(models.User{Email: manager.Email}).
		FirstOrCreate(&manager).Error
}
