// Package resolver maps /products/{identifier} path segments (opaque UUIDs
// or human-readable slugs) to canonical product records and decides between
// serving, redirecting and the listing fallback.
package resolver

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go-forklift-catalog/internal/events"
	"go-forklift-catalog/internal/model"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the read side of the backing store. Implemented by the product
// repository; stubbed in tests.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	// FindByNameLike is the legacy compatibility fallback for slugs that
	// predate the slug column. At most limit rows are returned.
	FindByNameLike(ctx context.Context, name string, limit int) ([]model.Product, error)
	ImagesFor(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error)
}

const (
	defaultCacheTTL = 5 * time.Minute
	// maxAttempts bounds retries against transient store failures.
	// Not-found is terminal and never retried.
	maxAttempts = 3
)

type Resolver struct {
	store Store
	cache *productCache
}

// New builds a resolver. When bus is non-nil the cache subscribes to catalog
// change events so admin writes take effect before the TTL runs out.
func New(store Store, bus EventBus.Bus) *Resolver {
	r := &Resolver{
		store: store,
		cache: newProductCache(defaultCacheTTL),
	}
	if bus != nil {
		bus.Subscribe(events.TopicProductChanged, func(change events.ProductChange) {
			r.cache.invalidate(change.ProductID, change.Slug)
		})
		bus.Subscribe(events.TopicRefreshAll, func() {
			r.cache.clear()
		})
	}
	return r
}

// Resolve maps an identifier to a product with its images merged in display
// order. The returned kind tells the redirect policy how the product was
// addressed. Errors are ErrNotFound, ErrAmbiguousMatch, ErrMalformedIdentifier
// or *TransientError.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*model.Product, IdentifierKind, error) {
	kind := Classify(identifier)

	if p, ok := r.cache.get(identifier); ok {
		return p, kind, nil
	}

	var (
		product *model.Product
		err     error
	)
	switch kind {
	case KindOpaqueID:
		product, err = r.resolveByID(ctx, identifier)
	default:
		product, err = r.resolveBySlug(ctx, identifier)
	}
	if err != nil {
		return nil, kind, err
	}

	images, err := r.fetchImages(ctx, product.ID)
	if err != nil {
		return nil, kind, err
	}
	product.Images = images

	r.cache.put(identifier, product)
	return product, kind, nil
}

func (r *Resolver) resolveByID(ctx context.Context, identifier string) (*model.Product, error) {
	id, err := uuid.Parse(identifier)
	if err != nil {
		// The classifier shape check makes this unlikely, but uuid.Parse
		// is the authority.
		return nil, ErrMalformedIdentifier
	}

	var product *model.Product
	err = r.withRetry(ctx, func() error {
		var lookupErr error
		product, lookupErr = r.store.FindByID(ctx, id)
		return lookupErr
	})
	return product, err
}

func (r *Resolver) resolveBySlug(ctx context.Context, identifier string) (*model.Product, error) {
	var product *model.Product
	err := r.withRetry(ctx, func() error {
		var lookupErr error
		product, lookupErr = r.store.FindBySlug(ctx, identifier)
		return lookupErr
	})
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Legacy fallback: historical slugs may predate the slug column, so try
	// a fuzzy name match. Asking for two rows detects ambiguity; guessing
	// between multiple matches risks serving the wrong machine.
	name := strings.ReplaceAll(identifier, "-", " ")
	var matches []model.Product
	err = r.withRetry(ctx, func() error {
		var lookupErr error
		matches, lookupErr = r.store.FindByNameLike(ctx, name, 2)
		return lookupErr
	})
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrAmbiguousMatch
	}
}

func (r *Resolver) fetchImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.withRetry(ctx, func() error {
		var lookupErr error
		images, lookupErr = r.store.ImagesFor(ctx, productID)
		return lookupErr
	})
	if err != nil {
		return nil, err
	}

	// Explicit display order ascending; images without one go after the
	// ordered ones in stable insertion order.
	sort.SliceStable(images, func(i, j int) bool {
		a, b := images[i].DisplayOrder, images[j].DisplayOrder
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	return images, nil
}

// withRetry runs fn up to maxAttempts times. Record-not-found is terminal and
// mapped to ErrNotFound; any other store error counts as transient.
func (r *Resolver) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return &TransientError{Err: err}
		}
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		lastErr = err
	}
	return &TransientError{Err: lastErr}
}
