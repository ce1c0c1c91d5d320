package main

import (
	"log"
	"os"

	"discussly-be/internal/model"
	"discussly-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
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

	color.Cyan("Seeding Discussion Types...")

	// The catalog shown by GET /api/discussions/types
	types := []model.DiscussionType{
		{Name: "General"},
		{Name: "Question"},
		{Name: "Debate"},
		{Name: "Brainstorm"},
		{Name: "Retrospective"},
		{Name: "Announcement"},
	}

	for _, t := range types {
		var existing model.DiscussionType
		if err := db.Where("name = ?", t.Name).First(&existing).Error; err == nil {
			color.Yellow("Type '%s' already exists, skipping...", t.Name)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			color.Red("Error creating type '%s': %v", t.Name, err)
		} else {
			color.Green("Created type: %s", t.Name)
		}
	}

	color.Cyan("Seeding completed!")
}
