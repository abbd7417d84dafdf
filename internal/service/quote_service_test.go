package service

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// stubQuoteRepo mimics the per-year numbering the real repository does in its
// insert transaction.
type stubQuoteRepo struct {
	quotes   []model.Quote
	counters map[int]int
}

func newStubQuoteRepo() *stubQuoteRepo {
	return &stubQuoteRepo{counters: make(map[int]int)}
}

func (s *stubQuoteRepo) Create(q *model.Quote) error {
	year := time.Now().Year()
	s.counters[year]++
	q.Number = fmt.Sprintf("Q-%d-%04d", year, s.counters[year])
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	s.quotes = append(s.quotes, *q)
	return nil
}

func (s *stubQuoteRepo) FindAll() ([]model.Quote, error) {
	return s.quotes, nil
}

func (s *stubQuoteRepo) FindByID(id uuid.UUID) (*model.Quote, error) {
	for i := range s.quotes {
		if s.quotes[i].ID == id {
			return &s.quotes[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubQuoteRepo) CountForYear(year int) (int64, error) {
	return int64(len(s.quotes)), nil
}

func TestCreateQuoteAssignsSequentialNumbers(t *testing.T) {
	repo := newStubQuoteRepo()
	svc := NewQuoteService(repo, newStubProductRepo())

	first := &model.Quote{CustomerName: "Acme Logistics"}
	second := &model.Quote{CustomerName: "Globex"}
	if err := svc.CreateQuote(first, "u1"); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	if err := svc.CreateQuote(second, "u1"); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	year := time.Now().Year()
	if want := fmt.Sprintf("Q-%d-0001", year); first.Number != want {
		t.Errorf("first number = %q, want %q", first.Number, want)
	}
	if want := fmt.Sprintf("Q-%d-0002", year); second.Number != want {
		t.Errorf("second number = %q, want %q", second.Number, want)
	}
	if first.CreatedBy != "u1" || first.CreatedByUserID == nil || *first.CreatedByUserID != "u1" {
		t.Errorf("audit fields not set: %+v", first.BaseModel)
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	repo := newStubQuoteRepo()
	svc := NewQuoteService(repo, newStubProductRepo())

	if err := svc.CreateQuote(&model.Quote{}, "u1"); err == nil {
		t.Error("expected validation error for missing customer name")
	}
	if err := svc.CreateQuote(&model.Quote{CustomerName: "Acme", CustomerEmail: "not-an-email"}, "u1"); err == nil {
		t.Error("expected validation error for bad email")
	}
	if len(repo.quotes) != 0 {
		t.Errorf("invalid quotes were persisted: %d", len(repo.quotes))
	}
}

// xlsx files are zip archives, so a valid export starts with "PK".
func assertXLSX(t *testing.T, data []byte) {
	t.Helper()
	if len(data) == 0 {
		t.Fatal("export is empty")
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("export does not look like an xlsx archive: % x", data[:4])
	}
}

func TestExportQuotes(t *testing.T) {
	repo := newStubQuoteRepo()
	svc := NewQuoteService(repo, newStubProductRepo())

	q := &model.Quote{
		CustomerName: "Acme Logistics",
		Amount:       decimal.NewFromInt(15500),
	}
	if err := svc.CreateQuote(q, "u1"); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	data, err := svc.ExportQuotes()
	if err != nil {
		t.Fatalf("ExportQuotes: %v", err)
	}
	assertXLSX(t, data)
}

func TestCellAxis(t *testing.T) {
	cases := []struct {
		col, row int
		want     string
	}{
		{0, 1, "A1"},
		{7, 42, "H42"},
		{25, 2, "Z2"},
		{26, 3, "AA3"},
	}
	for _, tc := range cases {
		if got := cellAxis(tc.col, tc.row); got != tc.want {
			t.Errorf("cellAxis(%d, %d) = %q, want %q", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestExportInventory(t *testing.T) {
	productRepo := newStubProductRepo()
	svc := NewQuoteService(newStubQuoteRepo(), productRepo)

	catalog := newTestCatalog(productRepo)
	p := &model.Product{Name: "Toyota SWE 200d", SerialNumber: "ABC-123"}
	if err := catalog.CreateProduct(p, "u1", "Alice"); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	data, err := svc.ExportInventory()
	if err != nil {
		t.Fatalf("ExportInventory: %v", err)
	}
	assertXLSX(t, data)
}
