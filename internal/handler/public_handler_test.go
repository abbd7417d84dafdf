package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/resolver"
	"go-forklift-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stubCatalog serves a fixed published list; writes are not exercised here.
type stubCatalog struct {
	products []model.Product
}

func (s *stubCatalog) CreateProduct(req *model.Product, userID, userName string) error {
	return nil
}

func (s *stubCatalog) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	return nil, service.ErrProductNotFound
}

func (s *stubCatalog) CopyProduct(id uuid.UUID, userID, userName string) (*model.Product, error) {
	return nil, service.ErrProductNotFound
}

func (s *stubCatalog) DeleteProduct(id uuid.UUID, userID, userName string) error {
	return service.ErrProductNotFound
}

func (s *stubCatalog) GetPublishedProducts() ([]model.Product, error) {
	return s.products, nil
}

func (s *stubCatalog) GetAllProducts() ([]model.Product, error) {
	return s.products, nil
}

func (s *stubCatalog) BackfillSlugs() (int, error) {
	return 0, nil
}

// stubStore backs the resolver with a single known product.
type stubStore struct {
	product model.Product
}

func (s *stubStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if id == s.product.ID {
		found := s.product
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if slug != "" && slug == s.product.Slug {
		found := s.product
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) FindByNameLike(ctx context.Context, name string, limit int) ([]model.Product, error) {
	return nil, nil
}

func (s *stubStore) ImagesFor(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	return nil, nil
}

func newStorefrontApp(t *testing.T) (*fiber.App, model.Product) {
	t.Helper()

	product := model.Product{
		Slug: "toyota-swe-200d-abc-123",
		Name: "Toyota SWE 200d",
	}
	product.ID = uuid.New()

	catalog := &stubCatalog{products: []model.Product{product}}
	res := resolver.New(&stubStore{product: product}, nil)
	h := NewPublicHandler(catalog, res, nil, nil, nil)

	app := fiber.New()
	app.Get("/api/v1/products", h.GetProducts)
	app.Get("/api/v1/products/:identifier", h.GetProduct)
	return app, product
}

func TestGetProductByIDRedirectsToSlug(t *testing.T) {
	app, product := newStorefrontApp(t)

	req := httptest.NewRequest("GET", "/api/v1/products/"+product.ID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/products/"+product.Slug {
		t.Errorf("Location = %q, want %q", loc, "/products/"+product.Slug)
	}
}

func TestGetProductByCanonicalSlugServesDirectly(t *testing.T) {
	app, product := newStorefrontApp(t)

	req := httptest.NewRequest("GET", "/api/v1/products/"+product.Slug, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body model.Product
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Slug != product.Slug || body.ID != product.ID {
		t.Errorf("served product = %s (%s)", body.Slug, body.ID)
	}
}

func TestGetProductUnknownFallsBackToListing(t *testing.T) {
	app, _ := newStorefrontApp(t)

	req := httptest.NewRequest("GET", "/api/v1/products/no-such-machine", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var body struct {
		Fallback bool            `json:"fallback"`
		Products []model.Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Fallback {
		t.Error("expected fallback flag in the 404 payload")
	}
	if len(body.Products) != 1 {
		t.Errorf("fallback listing has %d products, want 1", len(body.Products))
	}
}
