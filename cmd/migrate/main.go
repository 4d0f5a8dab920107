package main

import (
	"log"
	"os"

	"ai-policyassist-be/internal/model"
	"ai-policyassist-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// Extensions GORM AutoMigrate doesn't handle
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: setup statement failed: %v", err)
		}
	}

	if err := db.AutoMigrate(
		&model.ChatSession{},
		&model.ChatTurn{},
		&model.DocumentEmbedding{},
	); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	log.Println("Migration complete.")
}
