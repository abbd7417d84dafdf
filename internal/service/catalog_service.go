package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-forklift-catalog/internal/events"
	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/internal/slug"
	"go-forklift-catalog/internal/ws"
	"go-forklift-catalog/pkg/validator"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSerialExists    = errors.New("serial number already exists")
	ErrProductNotFound = errors.New("product not found")
)

type CatalogService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	// CopyProduct clones an existing product as a new draft: fresh ID,
	// suffixed serial number, regenerated slug, duplicated images.
	CopyProduct(id uuid.UUID, userID, userName string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID, userName string) error
	GetPublishedProducts() ([]model.Product, error)
	GetAllProducts() ([]model.Product, error)
	// BackfillSlugs assigns slugs to products that lack one. Idempotent:
	// existing slugs are reserved, never rewritten. Returns the number of
	// products updated.
	BackfillSlugs() (int, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
	bus         EventBus.Bus
}

func NewCatalogService(pRepo repository.ProductRepository, hub *ws.Hub, bus EventBus.Bus) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		wsHub:       hub,
		bus:         bus,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID, userName string) error {
	// 1. Basic struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Serial number de-duplication (Business Logic Validation).
	// The DB column is not unique because empty serials may repeat.
	if req.SerialNumber != "" {
		taken, err := s.serialTaken(req.SerialNumber, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrSerialExists
		}
	}

	// 3. Derive the canonical slug. An empty result is a generation
	// failure; the product is still created but stays ID-addressed until
	// its name or serial gives the generator something to work with.
	// A store failure during the lookup aborts the write instead.
	assigned, err := s.uniqueSlug(req.Name, req.SerialNumber, uuid.Nil)
	switch {
	case err == nil:
		req.Slug = assigned
	case errors.Is(err, slug.ErrEmpty):
		req.Slug = ""
	default:
		return err
	}

	// 4. Set Audit Fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	// 5. Persist (images are created together with the product)
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.fanout("created", req, userID, userName,
		fmt.Sprintf("%s added '%s' to the catalog", userName, req.Name))
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, err := s.findByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	// Serial uniqueness, excluding the product itself
	if req.SerialNumber != "" && req.SerialNumber != existing.SerialNumber {
		taken, err := s.serialTaken(req.SerialNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSerialExists
		}
	}

	// Slug is mutable only by regeneration: recompute when the inputs
	// changed, keep the stored value otherwise.
	if req.Name != existing.Name || req.SerialNumber != existing.SerialNumber {
		assigned, err := s.uniqueSlug(req.Name, req.SerialNumber, id)
		switch {
		case err == nil:
			existing.Slug = assigned
		case errors.Is(err, slug.ErrEmpty):
			existing.Slug = ""
		default:
			return nil, err
		}
	}

	existing.Name = req.Name
	existing.Model = req.Model
	existing.SerialNumber = req.SerialNumber
	existing.Price = req.Price
	existing.Description = req.Description
	existing.Published = req.Published
	existing.Specs = req.Specs
	existing.UpdatedBy = userID
	existing.UpdatedByUserID = &userID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	// Images are deleted and recreated wholesale on every update
	if err := s.productRepo.ReplaceImages(id, req.Images); err != nil {
		return nil, err
	}
	existing.Images = req.Images

	s.fanout("updated", existing, userID, userName,
		fmt.Sprintf("%s updated '%s'", userName, existing.Name))
	return existing, nil
}

func (s *catalogService) CopyProduct(id uuid.UUID, userID, userName string) (*model.Product, error) {
	source, err := s.findByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	images, err := s.productRepo.ImagesFor(context.Background(), id)
	if err != nil {
		return nil, err
	}

	clone := *source
	clone.BaseModel = model.BaseModel{} // fresh ID and timestamps
	if source.SerialNumber != "" {
		clone.SerialNumber = source.SerialNumber + "-copy"
	}
	clone.Published = false

	assigned, slugErr := s.uniqueSlug(clone.Name, clone.SerialNumber, uuid.Nil)
	switch {
	case slugErr == nil:
		clone.Slug = assigned
	case errors.Is(slugErr, slug.ErrEmpty):
		clone.Slug = ""
	default:
		return nil, slugErr
	}

	clone.Images = make([]model.ProductImage, len(images))
	for i, img := range images {
		clone.Images[i] = model.ProductImage{
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
			AltText:      img.AltText,
		}
	}

	clone.CreatedBy = userID
	clone.UpdatedBy = userID
	clone.CreatedByUserID = &userID
	clone.UpdatedByUserID = &userID

	if err := s.productRepo.Create(&clone); err != nil {
		return nil, err
	}

	s.fanout("created", &clone, userID, userName,
		fmt.Sprintf("%s copied '%s'", userName, source.Name))
	return &clone, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, userID, userName string) error {
	existing, err := s.findByID(id)
	if err != nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(id, userID); err != nil {
		return err
	}

	s.fanout("deleted", existing, userID, userName,
		fmt.Sprintf("%s removed '%s' from the catalog", userName, existing.Name))
	return nil
}

func (s *catalogService) GetPublishedProducts() ([]model.Product, error) {
	return s.productRepo.FindAll(true)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll(false)
}

func (s *catalogService) BackfillSlugs() (int, error) {
	existing, err := s.productRepo.AllSlugs()
	if err != nil {
		return 0, err
	}
	assigner := slug.NewAssigner()
	for _, sl := range existing {
		assigner.Reserve(sl)
	}

	missing, err := s.productRepo.FindWithoutSlug()
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range missing {
		p := &missing[i]
		assigned, err := assigner.Assign(p.Name, p.SerialNumber)
		if err != nil {
			// Nothing to derive a slug from; leave the product
			// ID-addressed rather than persisting an empty slug
			continue
		}
		p.Slug = assigned
		if err := s.productRepo.Update(p); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// uniqueSlug generates a slug and suffixes it until it does not collide with
// any other live product. excludeID skips the product being updated.
// Only record-not-found proves a candidate is free; any other lookup error
// fails closed so a store hiccup cannot hand out a colliding slug.
func (s *catalogService) uniqueSlug(name, serial string, excludeID uuid.UUID) (string, error) {
	base := slug.Generate(name, serial)
	if base == "" {
		return "", slug.ErrEmpty
	}
	candidate := base
	for i := 1; ; i++ {
		owner, err := s.productRepo.FindBySlug(context.Background(), candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if owner == nil || owner.ID == uuid.Nil || owner.ID == excludeID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// serialTaken reports whether another live product already owns the serial.
// Like uniqueSlug, a lookup failure is an error, never "free".
func (s *catalogService) serialTaken(serial string, excludeID uuid.UUID) (bool, error) {
	existing, err := s.productRepo.FindBySerialNumber(serial)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if existing == nil || existing.ID == uuid.Nil || existing.ID == excludeID {
		return false, nil
	}
	return true, nil
}

func (s *catalogService) findByID(id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.FindByID(context.Background(), id)
	if err != nil || p == nil || p.ID == uuid.Nil {
		if err == nil {
			err = gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return p, nil
}

// fanout publishes the change on the bus (cache invalidation + WS relay) and
// pushes a human-readable broadcast to connected back-office clients.
func (s *catalogService) fanout(action string, p *model.Product, userID, userName, message string) {
	if s.bus != nil {
		s.bus.Publish(events.TopicProductChanged, events.ProductChange{
			ProductID: p.ID.String(),
			Slug:      p.Slug,
			Action:    action,
		})
	}
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "catalog_update",
			"action": "product_" + action,
			"product": map[string]interface{}{
				"id":     p.ID,
				"slug":   p.Slug,
				"name":   p.Name,
				"serial": p.SerialNumber,
			},
			"user": map[string]interface{}{
				"id":   userID,
				"name": userName,
			},
			"message": message,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
