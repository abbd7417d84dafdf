package handler

import (
	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/internal/resolver"
	"go-forklift-catalog/internal/service"
	"go-forklift-catalog/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// PublicHandler serves the storefront: product listing, product detail with
// SEO redirect handling, testimonials, FAQ and the contact form.
type PublicHandler struct {
	catalog      service.CatalogService
	resolver     *resolver.Resolver
	testimonials repository.TestimonialRepository
	faqs         repository.FAQRepository
	contacts     repository.ContactRepository
}

func NewPublicHandler(
	catalog service.CatalogService,
	res *resolver.Resolver,
	testimonials repository.TestimonialRepository,
	faqs repository.FAQRepository,
	contacts repository.ContactRepository,
) *PublicHandler {
	return &PublicHandler{
		catalog:      catalog,
		resolver:     res,
		testimonials: testimonials,
		faqs:         faqs,
		contacts:     contacts,
	}
}

// GetProducts returns the published catalog, primary image first.
// GET /api/v1/products
func (h *PublicHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetPublishedProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// GetProduct resolves /products/{identifier} where the identifier is either
// an opaque UUID or a slug. Non-canonical addressing gets a permanent
// redirect to the slug URL; failed resolution falls back to the listing
// instead of a dead end.
// GET /api/v1/products/:identifier
func (h *PublicHandler) GetProduct(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	product, kind, err := h.resolver.Resolve(c.Context(), identifier)
	if err != nil && resolver.IsTransient(err) {
		return c.Status(503).JSON(fiber.Map{"error": "Catalog temporarily unavailable, please retry"})
	}

	out := resolver.Decide(kind, identifier, product, err)
	switch out.State {
	case resolver.StateRedirect:
		return c.Redirect(out.Location, fiber.StatusMovedPermanently)
	case resolver.StateDirectServe:
		return c.JSON(out.Product)
	default:
		// Listing fallback so the visitor can keep browsing
		products, listErr := h.catalog.GetPublishedProducts()
		if listErr != nil {
			products = []model.Product{}
		}
		return c.Status(404).JSON(fiber.Map{
			"error":    "Product not found",
			"fallback": true,
			"products": products,
		})
	}
}

// GetTestimonials returns published testimonials in display order.
// GET /api/v1/testimonials
func (h *PublicHandler) GetTestimonials(c *fiber.Ctx) error {
	items, err := h.testimonials.FindAll(true)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// GetFAQs returns published FAQ entries in display order.
// GET /api/v1/faqs
func (h *PublicHandler) GetFAQs(c *fiber.Ctx) error {
	items, err := h.faqs.FindAll(true)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// CreateContact accepts a storefront contact-form submission.
// POST /api/v1/contact
func (h *PublicHandler) CreateContact(c *fiber.Ctx) error {
	var msg model.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&msg); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	msg.Handled = false
	msg.CreatedBy = "storefront"
	msg.UpdatedBy = "storefront"
	if err := h.contacts.Create(&msg); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save message"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Thanks, we will get back to you shortly"})
}
