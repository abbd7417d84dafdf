package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/internal/service"
	"go-forklift-catalog/internal/storage"
	"go-forklift-catalog/pkg/database"

	"github.com/joho/godotenv"
)

// One-shot: re-hosts legacy product image URLs into object storage and
// rewrites the rows to the new public URLs. Re-runnable: already hosted
// images are skipped, failed ones are picked up by the next run.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database and storage client
	db := database.ConnectDB()
	store := storage.NewClientFromEnv()

	// 3. Run, stoppable with Ctrl-C mid-migration
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrator := service.NewImageMigrator(repository.NewProductRepo(db), store)
	report, err := migrator.MigrateAll(ctx)
	if err != nil {
		log.Fatalf("❌ Migration aborted: %v", err)
	}

	log.Printf("✅ Migration complete: %d scanned, %d migrated, %d skipped, %d failed",
		report.Scanned, report.Migrated, report.Skipped, len(report.Failed))
	for _, url := range report.Failed {
		log.Printf("   failed: %s", url)
	}
}
