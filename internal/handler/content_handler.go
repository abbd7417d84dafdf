package handler

import (
	"go-forklift-catalog/internal/events"
	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/pkg/validator"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ContentHandler manages the editorial content of the storefront:
// testimonials, FAQ entries and the contact inbox. It talks to the
// repositories directly, there is no business logic beyond validation.
type ContentHandler struct {
	testimonials repository.TestimonialRepository
	faqs         repository.FAQRepository
	contacts     repository.ContactRepository
	bus          EventBus.Bus
}

func NewContentHandler(
	testimonials repository.TestimonialRepository,
	faqs repository.FAQRepository,
	contacts repository.ContactRepository,
	bus EventBus.Bus,
) *ContentHandler {
	return &ContentHandler{
		testimonials: testimonials,
		faqs:         faqs,
		contacts:     contacts,
		bus:          bus,
	}
}

func (h *ContentHandler) contentChanged() {
	h.bus.Publish(events.TopicContentChanged)
}

// --- Testimonials ---

// GET /api/v1/admin/testimonials
func (h *ContentHandler) GetTestimonials(c *fiber.Ctx) error {
	items, err := h.testimonials.FindAll(false)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch testimonials"})
	}
	return c.JSON(items)
}

// POST /api/v1/admin/testimonials
func (h *ContentHandler) CreateTestimonial(c *fiber.Ctx) error {
	var t model.Testimonial
	if err := c.BodyParser(&t); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&t); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	t.CreatedBy = getUserID(c)
	t.UpdatedBy = getUserID(c)
	if err := h.testimonials.Create(&t); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create testimonial"})
	}

	h.contentChanged()
	return c.Status(201).JSON(fiber.Map{"message": "Testimonial created", "data": t})
}

// PUT /api/v1/admin/testimonials/:id
func (h *ContentHandler) UpdateTestimonial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid testimonial ID"})
	}

	existing, err := h.testimonials.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Testimonial not found"})
	}

	var t model.Testimonial
	if err := c.BodyParser(&t); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&t); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	t.BaseModel = existing.BaseModel
	t.UpdatedBy = getUserID(c)
	if err := h.testimonials.Update(&t); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update testimonial"})
	}

	h.contentChanged()
	return c.JSON(fiber.Map{"message": "Testimonial updated", "data": t})
}

// DELETE /api/v1/admin/testimonials/:id
func (h *ContentHandler) DeleteTestimonial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid testimonial ID"})
	}

	if err := h.testimonials.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete testimonial"})
	}

	h.contentChanged()
	return c.JSON(fiber.Map{"message": "Testimonial deleted"})
}

// --- FAQ ---

// GET /api/v1/admin/faqs
func (h *ContentHandler) GetFAQs(c *fiber.Ctx) error {
	items, err := h.faqs.FindAll(false)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch FAQs"})
	}
	return c.JSON(items)
}

// POST /api/v1/admin/faqs
func (h *ContentHandler) CreateFAQ(c *fiber.Ctx) error {
	var f model.FAQ
	if err := c.BodyParser(&f); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&f); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	f.CreatedBy = getUserID(c)
	f.UpdatedBy = getUserID(c)
	if err := h.faqs.Create(&f); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create FAQ"})
	}

	h.contentChanged()
	return c.Status(201).JSON(fiber.Map{"message": "FAQ created", "data": f})
}

// PUT /api/v1/admin/faqs/:id
func (h *ContentHandler) UpdateFAQ(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid FAQ ID"})
	}

	existing, err := h.faqs.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "FAQ not found"})
	}

	var f model.FAQ
	if err := c.BodyParser(&f); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&f); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	f.BaseModel = existing.BaseModel
	f.UpdatedBy = getUserID(c)
	if err := h.faqs.Update(&f); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update FAQ"})
	}

	h.contentChanged()
	return c.JSON(fiber.Map{"message": "FAQ updated", "data": f})
}

// DELETE /api/v1/admin/faqs/:id
func (h *ContentHandler) DeleteFAQ(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid FAQ ID"})
	}

	if err := h.faqs.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete FAQ"})
	}

	h.contentChanged()
	return c.JSON(fiber.Map{"message": "FAQ deleted"})
}

// --- Contact inbox ---

// GET /api/v1/admin/contacts
func (h *ContentHandler) GetContacts(c *fiber.Ctx) error {
	messages, err := h.contacts.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(messages)
}

// PUT /api/v1/admin/contacts/:id/handled
func (h *ContentHandler) MarkContactHandled(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid message ID"})
	}

	if err := h.contacts.MarkHandled(id, getUserID(c)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update message"})
	}

	return c.JSON(fiber.Map{"message": "Message marked as handled"})
}
