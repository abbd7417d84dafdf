package handler

import (
	"fmt"
	"time"

	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type QuoteHandler struct {
	service service.QuoteService
}

func NewQuoteHandler(s service.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: s}
}

// CreateQuote issues a new quote. The number is assigned server side.
// POST /api/v1/admin/quotes
func (h *QuoteHandler) CreateQuote(c *fiber.Ctx) error {
	var quote model.Quote
	if err := c.BodyParser(&quote); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateQuote(&quote, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Quote created", "data": quote})
}

// GetQuotes returns all quotes, newest first.
// GET /api/v1/admin/quotes
func (h *QuoteHandler) GetQuotes(c *fiber.Ctx) error {
	quotes, err := h.service.GetQuotes()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch quotes"})
	}
	return c.JSON(quotes)
}

// GetQuote returns a single quote by ID.
// GET /api/v1/admin/quotes/:id
func (h *QuoteHandler) GetQuote(c *fiber.Ctx) error {
	quoteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quote ID"})
	}

	quote, err := h.service.GetQuoteByID(quoteID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Quote not found"})
	}
	return c.JSON(quote)
}

// ExportQuotes streams the quote book as an xlsx download.
// GET /api/v1/admin/quotes/export
func (h *QuoteHandler) ExportQuotes(c *fiber.Ctx) error {
	data, err := h.service.ExportQuotes()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export quotes"})
	}

	filename := fmt.Sprintf("quotes-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ExportInventory streams the full catalog as an xlsx download.
// GET /api/v1/admin/inventory/export
func (h *QuoteHandler) ExportInventory(c *fiber.Ctx) error {
	data, err := h.service.ExportInventory()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export inventory"})
	}

	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
