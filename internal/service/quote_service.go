package service

import (
	"bytes"
	"fmt"

	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/pkg/validator"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/google/uuid"
)

type QuoteService interface {
	CreateQuote(req *model.Quote, userID string) error
	GetQuotes() ([]model.Quote, error)
	GetQuoteByID(id uuid.UUID) (*model.Quote, error)
	// ExportQuotes renders all quotes as a spreadsheet for the back office.
	ExportQuotes() ([]byte, error)
	// ExportInventory renders the full catalog as a spreadsheet.
	ExportInventory() ([]byte, error)
}

type quoteService struct {
	quoteRepo   repository.QuoteRepository
	productRepo repository.ProductRepository
}

func NewQuoteService(qRepo repository.QuoteRepository, pRepo repository.ProductRepository) QuoteService {
	return &quoteService{
		quoteRepo:   qRepo,
		productRepo: pRepo,
	}
}

func (s *quoteService) CreateQuote(req *model.Quote, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID

	// The repository assigns the per-year number inside the insert
	// transaction, so concurrent quotes never share a number
	return s.quoteRepo.Create(req)
}

func (s *quoteService) GetQuotes() ([]model.Quote, error) {
	return s.quoteRepo.FindAll()
}

func (s *quoteService) GetQuoteByID(id uuid.UUID) (*model.Quote, error) {
	return s.quoteRepo.FindByID(id)
}

func (s *quoteService) ExportQuotes() ([]byte, error) {
	quotes, err := s.quoteRepo.FindAll()
	if err != nil {
		return nil, err
	}

	xlsx := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"Number", "Date", "Customer", "Email", "Phone", "Machine", "Amount", "Note"}
	for i, h := range headers {
		xlsx.SetCellValue(sheet, cellAxis(i, 1), h)
	}

	for row, q := range quotes {
		machine := ""
		if q.Product != nil {
			machine = q.Product.Name
		}
		values := []interface{}{
			q.Number,
			q.CreatedAt.Format("2006-01-02"),
			q.CustomerName,
			q.CustomerEmail,
			q.CustomerPhone,
			machine,
			q.Amount.String(),
			q.Note,
		}
		for col, v := range values {
			xlsx.SetCellValue(sheet, cellAxis(col, row+2), v)
		}
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *quoteService) ExportInventory() ([]byte, error) {
	products, err := s.productRepo.FindAll(false)
	if err != nil {
		return nil, err
	}

	xlsx := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"Name", "Model", "Serial", "Slug", "Price", "Year", "Capacity (kg)", "Lift Height (mm)", "Hours", "Condition", "Published"}
	for i, h := range headers {
		xlsx.SetCellValue(sheet, cellAxis(i, 1), h)
	}

	for row, p := range products {
		values := []interface{}{
			p.Name,
			p.Model,
			p.SerialNumber,
			p.Slug,
			p.Price.String(),
			p.Specs.ProductionYear,
			p.Specs.CapacityKG,
			p.Specs.LiftHeightMM,
			p.Specs.OperatingHours,
			p.Specs.Condition,
			p.Published,
		}
		for col, v := range values {
			xlsx.SetCellValue(sheet, cellAxis(col, row+2), v)
		}
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellAxis converts 0-based column and 1-based row to an A1-style axis.
func cellAxis(col, row int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return fmt.Sprintf("%s%d", name, row)
}
