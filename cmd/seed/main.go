package main

import (
	"log"
	"os"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/model"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/database"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/embedding"

	"github.com/joho/godotenv"
	"github.com/pgvector/pgvector-go"
)

// Seeds a handful of audio resources with pre-computed embeddings so the
// retrieval path can be exercised on a fresh database without uploading files.
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

	provider, err := embedding.NewProvider(
		getEnv("EMBEDDING_PROVIDER", "openai"),
		getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		os.Getenv("OPENAI_API_KEY"),
	)
	if err != nil {
		log.Fatal("Error: Failed to initialize embedding provider:", err)
	}

	log.Println("Seeding Sample Audio Resources...")

	resources := []model.AudioResource{
		{
			Filename:         "intro-consultation.mp3",
			OriginalFilename: "intro-consultation.mp3",
			StoragePath:      "uploads/intro-consultation.mp3",
			Transcription:    "Welcome to your first consultation. Today we will cover how the engine grounds its answers in recorded material and when it falls back to general knowledge.",
			Summary:          "An introductory consultation recording explaining how answers are grounded in recorded material, with a fallback to general knowledge when no recording is relevant.",
		},
		{
			Filename:         "pricing-overview.mp3",
			OriginalFilename: "pricing-overview.mp3",
			StoragePath:      "uploads/pricing-overview.mp3",
			Transcription:    "Our pricing has three tiers. The starter tier is free, the professional tier adds unlimited sessions, and the enterprise tier includes dedicated support.",
			Summary:          "A pricing overview recording describing the starter, professional, and enterprise tiers and what each one includes.",
		},
		{
			Filename:         "onboarding-checklist.mp3",
			OriginalFilename: "onboarding-checklist.mp3",
			StoragePath:      "uploads/onboarding-checklist.mp3",
			Transcription:    "Before your first session, prepare your account details, connect your calendar, and review the consultation guidelines we sent by email.",
			Summary:          "An onboarding checklist recording listing the steps to complete before a first session, including account setup and reviewing the consultation guidelines.",
		},
	}

	for _, r := range resources {
		// Skip resources that were already seeded
		var existing model.AudioResource
		if err := db.Where("filename = ?", r.Filename).First(&existing).Error; err == nil {
			log.Printf("Resource '%s' already exists, skipping...", r.Filename)
			continue
		}

		if err := db.Create(&r).Error; err != nil {
			log.Printf("Error creating resource '%s': %v", r.Filename, err)
			continue
		}

		resp, err := provider.Generate(r.Summary, embedding.TaskTypeDocument)
		if err != nil {
			log.Printf("Error embedding resource '%s': %v", r.Filename, err)
			continue
		}

		emb := model.AudioEmbedding{
			AudioResourceId: r.Id,
			Document:        r.Summary,
			EmbeddingValue:  pgvector.NewVector(resp.Embedding.Values),
		}
		if err := db.Create(&emb).Error; err != nil {
			log.Printf("Error storing embedding for '%s': %v", r.Filename, err)
		} else {
			log.Printf("Created resource: %s", r.Filename)
		}
	}

	log.Println("Audio resource seeding completed!")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
