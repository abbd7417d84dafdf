package main

import (
	"log"

	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/internal/service"
	"go-forklift-catalog/pkg/database"

	"github.com/joho/godotenv"
)

// One-shot: assigns a slug to every product that lacks one. Safe to run
// repeatedly, existing slugs are never touched.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Run the backfill. No hub and no bus: this is a maintenance run,
	// nothing is listening.
	productRepo := repository.NewProductRepo(db)
	catalog := service.NewCatalogService(productRepo, nil, nil)

	updated, err := catalog.BackfillSlugs()
	if err != nil {
		log.Fatalf("❌ Backfill failed after %d updates: %v", updated, err)
	}

	log.Printf("✅ Backfill complete: %d products updated", updated)
}
