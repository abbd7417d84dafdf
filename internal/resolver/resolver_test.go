package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-forklift-catalog/internal/events"
	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//
// ===== IN-MEMORY STUB STORE (implements resolver.Store) =====
//

type stubStore struct {
	products []model.Product
	images   map[uuid.UUID][]model.ProductImage

	// failNext makes the next N store calls fail with failErr
	failNext int
	failErr  error

	calls int
}

func newStubStore() *stubStore {
	return &stubStore{images: make(map[uuid.UUID][]model.ProductImage)}
}

func (s *stubStore) add(p model.Product, images ...model.ProductImage) model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products = append(s.products, p)
	s.images[p.ID] = images
	return p
}

func (s *stubStore) maybeFail() error {
	s.calls++
	if s.failNext > 0 {
		s.failNext--
		return s.failErr
	}
	return nil
}

func (s *stubStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	for i := range s.products {
		if s.products[i].Slug != "" && s.products[i].Slug == slug {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) FindByNameLike(ctx context.Context, name string, limit int) ([]model.Product, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	var out []model.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *stubStore) ImagesFor(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	if err := s.maybeFail(); err != nil {
		return nil, err
	}
	return s.images[productID], nil
}

func intPtr(v int) *int { return &v }

//
// ===== CLASSIFIER =====
//

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want IdentifierKind
	}{
		{uuid.New().String(), KindOpaqueID},
		{"D9428888-122B-11E1-B85C-61CD3CBB3210", KindOpaqueID},
		{"toyota-swe-200d-abc-123", KindSlug},
		{"not-a-uuid-but-36-characters-long-xx", KindSlug},
		{"", KindSlug},
		{"123", KindSlug},
	}
	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

//
// ===== RESOLUTION + REDIRECT POLICY =====
//

func TestResolveByCanonicalSlugDirectServes(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "Toyota SWE 200D", SerialNumber: "ABC-123", Slug: "toyota-swe-200d-abc-123"})

	r := New(store, nil)
	got, kind, err := r.Resolve(context.Background(), "toyota-swe-200d-abc-123")
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindSlug {
		t.Fatalf("kind = %v, want slug", kind)
	}

	out := Decide(kind, "toyota-swe-200d-abc-123", got, err)
	if out.State != StateDirectServe {
		t.Fatalf("state = %v, want DIRECT_SERVE", out.State)
	}
	if out.Product.ID != p.ID {
		t.Fatal("resolved wrong product")
	}
}

func TestResolveByIDRedirectsToSlug(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "Linde H25T", Slug: "linde-h25t"})

	r := New(store, nil)
	got, kind, err := r.Resolve(context.Background(), p.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindOpaqueID {
		t.Fatalf("kind = %v, want opaque-id", kind)
	}

	out := Decide(kind, p.ID.String(), got, err)
	if out.State != StateRedirect {
		t.Fatalf("state = %v, want REDIRECT", out.State)
	}
	if out.Location != "/products/linde-h25t" {
		t.Fatalf("location = %q", out.Location)
	}
}

func TestResolveByIDWithoutSlugDirectServes(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "!!!", Slug: ""})

	r := New(store, nil)
	got, kind, err := r.Resolve(context.Background(), p.ID.String())
	if err != nil {
		t.Fatal(err)
	}

	out := Decide(kind, p.ID.String(), got, err)
	if out.State != StateDirectServe {
		t.Fatalf("state = %v, want DIRECT_SERVE (no redirect loop)", out.State)
	}
}

func TestResolveUnknownIdentifierNotFound(t *testing.T) {
	store := newStubStore()
	r := New(store, nil)

	_, kind, err := r.Resolve(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	out := Decide(kind, "whatever", nil, err)
	if out.State != StateNotFound {
		t.Fatalf("state = %v, want NOT_FOUND", out.State)
	}
}

func TestMalformedOpaqueIdentifierIsTerminal(t *testing.T) {
	store := newStubStore()
	r := New(store, nil)

	// uuid.Parse is the parse authority inside the ID path; anything it
	// rejects is malformed regardless of what the shape check let through
	_, err := r.resolveByID(context.Background(), "zzzzzzzz-122b-11e1-b85c-61cd3cbb3210")
	if !errors.Is(err, ErrMalformedIdentifier) {
		t.Fatalf("err = %v, want ErrMalformedIdentifier", err)
	}
	if !IsTerminal(err) {
		t.Fatal("malformed identifier must be terminal")
	}
	if IsTransient(err) {
		t.Fatal("malformed identifier misclassified as transient")
	}
	if store.calls != 0 {
		t.Fatalf("store was queried %d times for an unparseable ID", store.calls)
	}

	out := Decide(KindOpaqueID, "zzzzzzzz-122b-11e1-b85c-61cd3cbb3210", nil, err)
	if out.State != StateNotFound {
		t.Fatalf("state = %v, want NOT_FOUND (listing fallback)", out.State)
	}
}

func TestLegacyNameFallbackSingleMatchRedirects(t *testing.T) {
	store := newStubStore()
	store.add(model.Product{Name: "Kalmar DCE 90", Slug: "kalmar-dce-90-xyz"})

	r := New(store, nil)
	// Old slug that predates the slug column: no exact slug match, one
	// fuzzy name match.
	got, kind, err := r.Resolve(context.Background(), "kalmar-dce-90")
	if err != nil {
		t.Fatal(err)
	}

	out := Decide(kind, "kalmar-dce-90", got, err)
	if out.State != StateRedirect {
		t.Fatalf("state = %v, want REDIRECT to canonical slug", out.State)
	}
	if out.Location != "/products/kalmar-dce-90-xyz" {
		t.Fatalf("location = %q", out.Location)
	}
}

func TestLegacyNameFallbackAmbiguousIsNotFound(t *testing.T) {
	store := newStubStore()
	store.add(model.Product{Name: "Still RX20", Slug: "still-rx20-a"})
	store.add(model.Product{Name: "Still RX20 Plus", Slug: "still-rx20-b"})

	r := New(store, nil)
	_, kind, err := r.Resolve(context.Background(), "still-rx20")
	if !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("err = %v, want ErrAmbiguousMatch", err)
	}

	out := Decide(kind, "still-rx20", nil, err)
	if out.State != StateNotFound {
		t.Fatalf("state = %v, want NOT_FOUND (never guess between matches)", out.State)
	}
}

func TestImagesMergedInDisplayOrder(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "Toyota 8FBE15", Slug: "toyota-8fbe15"},
		model.ProductImage{URL: "u-no-order-1"},
		model.ProductImage{URL: "u-third", DisplayOrder: intPtr(3)},
		model.ProductImage{URL: "u-first", DisplayOrder: intPtr(1)},
		model.ProductImage{URL: "u-no-order-2"},
	)

	r := New(store, nil)
	got, _, err := r.Resolve(context.Background(), p.ID.String())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"u-first", "u-third", "u-no-order-1", "u-no-order-2"}
	if len(got.Images) != len(want) {
		t.Fatalf("got %d images, want %d", len(got.Images), len(want))
	}
	for i, url := range want {
		if got.Images[i].URL != url {
			t.Errorf("images[%d] = %q, want %q", i, got.Images[i].URL, url)
		}
	}
}

func TestTransientErrorsAreRetried(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "Hyster H2.5", Slug: "hyster-h2-5"})
	store.failNext = 2
	store.failErr = errors.New("connection refused")

	r := New(store, nil)
	got, _, err := r.Resolve(context.Background(), p.ID.String())
	if err != nil {
		t.Fatalf("expected recovery within retry bound, got %v", err)
	}
	if got.ID != p.ID {
		t.Fatal("resolved wrong product")
	}
}

func TestTransientErrorsExhaustRetryBound(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "Hyster H2.5", Slug: "hyster-h2-5"})
	store.failNext = maxAttempts
	store.failErr = errors.New("connection refused")

	r := New(store, nil)
	_, _, err := r.Resolve(context.Background(), p.ID.String())
	if !IsTransient(err) {
		t.Fatalf("err = %v, want transient", err)
	}
	if IsTerminal(err) {
		t.Fatal("transient error misclassified as terminal")
	}
}

func TestCacheServesRepeatLookups(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "Linde E16", Slug: "linde-e16"})

	r := New(store, nil)
	if _, _, err := r.Resolve(context.Background(), "linde-e16"); err != nil {
		t.Fatal(err)
	}
	before := store.calls
	if _, _, err := r.Resolve(context.Background(), "linde-e16"); err != nil {
		t.Fatal(err)
	}
	if store.calls != before {
		t.Fatalf("second lookup hit the store (%d -> %d calls)", before, store.calls)
	}
	_ = p
}

func TestBusEventInvalidatesCache(t *testing.T) {
	store := newStubStore()
	p := store.add(model.Product{Name: "Linde E16", Slug: "linde-e16"})

	bus := events.NewBus()
	r := New(store, bus)
	if _, _, err := r.Resolve(context.Background(), "linde-e16"); err != nil {
		t.Fatal(err)
	}

	bus.Publish(events.TopicProductChanged, events.ProductChange{
		ProductID: p.ID.String(),
		Slug:      "linde-e16",
		Action:    "updated",
	})

	before := store.calls
	if _, _, err := r.Resolve(context.Background(), "linde-e16"); err != nil {
		t.Fatal(err)
	}
	if store.calls == before {
		t.Fatal("expected a fresh store lookup after invalidation")
	}
}

func TestCancelledContextAbandonsResolution(t *testing.T) {
	store := newStubStore()
	store.add(model.Product{Name: "Linde E16", Slug: "linde-e16"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(store, nil)
	_, _, err := r.Resolve(ctx, "linde-e16")
	if !IsTransient(err) {
		t.Fatalf("err = %v, want transient wrapping context error", err)
	}
}
