package service

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/internal/storage"
)

// maxUploadAttempts bounds the per-image retry loop. After that the image is
// reported and skipped; the migration is re-runnable so the next run picks
// up whatever failed.
const maxUploadAttempts = 3

// MigrationReport summarizes one migration run.
type MigrationReport struct {
	Scanned  int
	Migrated int
	Skipped  int
	Failed   []string
}

// ImageMigrator re-hosts legacy product image URLs into the object storage
// service and rewrites the image rows to the new public URLs.
type ImageMigrator struct {
	productRepo repository.ProductRepository
	store       storage.Client
}

func NewImageMigrator(pRepo repository.ProductRepository, store storage.Client) *ImageMigrator {
	return &ImageMigrator{
		productRepo: pRepo,
		store:       store,
	}
}

func (m *ImageMigrator) MigrateAll(ctx context.Context) (*MigrationReport, error) {
	images, err := m.productRepo.AllImages()
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{}
	for _, img := range images {
		report.Scanned++

		if img.URL == "" || m.store.Hosts(img.URL) {
			report.Skipped++
			continue
		}

		key := fmt.Sprintf("%s/%s", img.ProductID, path.Base(img.URL))
		newURL, err := m.migrateOne(ctx, img.URL, key)
		if err != nil {
			log.Printf("Warning: image %s migration failed: %v", img.ID, err)
			report.Failed = append(report.Failed, img.URL)
			continue
		}

		if err := m.productRepo.UpdateImageURL(img.ID, newURL); err != nil {
			return report, err
		}
		report.Migrated++
	}
	return report, nil
}

// migrateOne downloads a legacy image and uploads it to the storage service,
// retrying transient failures up to the attempt bound.
func (m *ImageMigrator) migrateOne(ctx context.Context, srcURL, key string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxUploadAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 1 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		data, err := m.store.Fetch(ctx, srcURL)
		if err != nil {
			lastErr = err
			continue
		}

		newURL, err := m.store.Upload(ctx, key, data, contentTypeFor(srcURL))
		if err != nil {
			lastErr = err
			continue
		}
		return newURL, nil
	}
	return "", lastErr
}

func contentTypeFor(url string) string {
	switch strings.ToLower(path.Ext(url)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
