package handler

import (
	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// CatalogHandler is the admin side of the product catalog.
type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// Helper to get User Info from JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// productRequest is the admin form payload. Spec sheet values arrive as
// loose JSON (numbers or strings depending on the form widget), so they are
// coerced leniently instead of failing the whole submission.
type productRequest struct {
	Name         string                 `json:"name"`
	Model        string                 `json:"model"`
	SerialNumber string                 `json:"serial_number"`
	Price        interface{}            `json:"price"`
	Description  string                 `json:"description"`
	Published    *bool                  `json:"published"`
	Specs        map[string]interface{} `json:"specs"`
	Images       []imageRequest         `json:"images"`
}

type imageRequest struct {
	URL          string `json:"url"`
	DisplayOrder *int   `json:"display_order"`
	AltText      string `json:"alt_text"`
}

func (req *productRequest) toModel() (*model.Product, error) {
	price, err := decimal.NewFromString(cast.ToString(req.Price))
	if err != nil && req.Price != nil {
		return nil, err
	}

	p := &model.Product{
		Name:         req.Name,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Price:        price,
		Description:  req.Description,
		Published:    true,
		Specs: model.SpecSheet{
			CapacityKG:     cast.ToInt(req.Specs["capacity_kg"]),
			LiftHeightMM:   cast.ToInt(req.Specs["lift_height_mm"]),
			ProductionYear: cast.ToInt(req.Specs["production_year"]),
			OperatingHours: cast.ToInt(req.Specs["operating_hours"]),
			MastType:       cast.ToString(req.Specs["mast_type"]),
			FuelType:       cast.ToString(req.Specs["fuel_type"]),
			Condition:      cast.ToString(req.Specs["condition"]),
		},
	}
	if req.Published != nil {
		p.Published = *req.Published
	}

	p.Images = make([]model.ProductImage, len(req.Images))
	for i, img := range req.Images {
		p.Images[i] = model.ProductImage{
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
			AltText:      img.AltText,
		}
	}
	return p, nil
}

// GetProducts returns the whole catalog including unpublished drafts.
// GET /api/v1/admin/products
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// CreateProduct handles the admin product form.
// POST /api/v1/admin/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := req.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid price"})
	}

	if err := h.service.CreateProduct(product, getUserID(c), getUserName(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// UpdateProduct re-validates and replaces the product, images wholesale.
// PUT /api/v1/admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := req.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid price"})
	}

	updated, err := h.service.UpdateProduct(productID, product, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// CopyProduct clones a product into an unpublished draft.
// POST /api/v1/admin/products/:id/copy
func (h *CatalogHandler) CopyProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	clone, err := h.service.CopyProduct(productID, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product copied", "data": clone})
}

// DeleteProduct removes a product and its images.
// DELETE /api/v1/admin/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(productID, getUserID(c), getUserName(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// BackfillSlugs assigns slugs to products that lack one.
// POST /api/v1/admin/products/backfill-slugs
func (h *CatalogHandler) BackfillSlugs(c *fiber.Ctx) error {
	updated, err := h.service.BackfillSlugs()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Backfill complete", "updated": updated})
}
