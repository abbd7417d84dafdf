package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
)

// stubStorage fails the first failFetch fetches, then serves.
type stubStorage struct {
	baseURL   string
	failFetch int
	uploads   map[string][]byte
}

func newStubStorage() *stubStorage {
	return &stubStorage{baseURL: "https://storage.example.com", uploads: make(map[string][]byte)}
}

func (s *stubStorage) Fetch(ctx context.Context, url string) ([]byte, error) {
	if s.failFetch > 0 {
		s.failFetch--
		return nil, errors.New("connection reset")
	}
	return []byte("image-bytes"), nil
}

func (s *stubStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.uploads[key] = data
	return s.baseURL + "/" + key, nil
}

func (s *stubStorage) Hosts(url string) bool {
	return strings.HasPrefix(url, s.baseURL)
}

func seedImage(repo *stubProductRepo, productID uuid.UUID, url string) model.ProductImage {
	img := model.ProductImage{ProductID: productID, URL: url}
	img.ID = uuid.New()
	repo.images[productID] = append(repo.images[productID], img)
	return img
}

func TestMigrateAllSkipsHostedAndEmptyURLs(t *testing.T) {
	repo := newStubProductRepo()
	store := newStubStorage()
	productID := uuid.New()

	seedImage(repo, productID, "https://storage.example.com/already/there.jpg")
	seedImage(repo, productID, "")

	report, err := NewImageMigrator(repo, store).MigrateAll(context.Background())
	if err != nil {
		t.Fatalf("MigrateAll: %v", err)
	}
	if report.Scanned != 2 || report.Skipped != 2 || report.Migrated != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(store.uploads) != 0 {
		t.Errorf("unexpected uploads: %v", store.uploads)
	}
}

func TestMigrateAllRewritesLegacyURLs(t *testing.T) {
	repo := newStubProductRepo()
	store := newStubStorage()
	productID := uuid.New()

	img := seedImage(repo, productID, "https://legacy.example.net/photos/fork.jpg")

	report, err := NewImageMigrator(repo, store).MigrateAll(context.Background())
	if err != nil {
		t.Fatalf("MigrateAll: %v", err)
	}
	if report.Migrated != 1 {
		t.Fatalf("report = %+v", report)
	}

	wantKey := productID.String() + "/fork.jpg"
	if _, ok := store.uploads[wantKey]; !ok {
		t.Errorf("upload key missing, got %v", store.uploads)
	}

	imgs, _ := repo.ImagesFor(context.Background(), productID)
	if got := imgs[0].URL; got != store.baseURL+"/"+wantKey {
		t.Errorf("rewritten URL = %q", got)
	}
	if imgs[0].ID != img.ID {
		t.Error("rewrite should keep the image row")
	}
}

func TestMigrateAllRetriesTransientFetch(t *testing.T) {
	repo := newStubProductRepo()
	store := newStubStorage()
	store.failFetch = 1
	productID := uuid.New()

	seedImage(repo, productID, "https://legacy.example.net/photos/fork.jpg")

	report, err := NewImageMigrator(repo, store).MigrateAll(context.Background())
	if err != nil {
		t.Fatalf("MigrateAll: %v", err)
	}
	if report.Migrated != 1 || len(report.Failed) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestMigrateAllReportsExhaustedImages(t *testing.T) {
	repo := newStubProductRepo()
	store := newStubStorage()
	store.failFetch = maxUploadAttempts
	productID := uuid.New()

	legacyURL := "https://legacy.example.net/photos/fork.jpg"
	seedImage(repo, productID, legacyURL)

	report, err := NewImageMigrator(repo, store).MigrateAll(context.Background())
	if err != nil {
		t.Fatalf("MigrateAll: %v", err)
	}
	if report.Migrated != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Failed) != 1 || report.Failed[0] != legacyURL {
		t.Errorf("failed list = %v", report.Failed)
	}

	// The row keeps its legacy URL so a later run can retry it
	imgs, _ := repo.ImagesFor(context.Background(), productID)
	if imgs[0].URL != legacyURL {
		t.Errorf("URL rewritten despite failure: %q", imgs[0].URL)
	}
}
