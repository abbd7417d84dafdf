package resolver

import "go-forklift-catalog/internal/model"

// State is the terminal state of one resolution request.
type State int

const (
	StateDirectServe State = iota
	StateRedirect
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateDirectServe:
		return "DIRECT_SERVE"
	case StateRedirect:
		return "REDIRECT"
	default:
		return "NOT_FOUND"
	}
}

// Outcome is the redirect policy's decision for a single request.
type Outcome struct {
	State   State
	Product *model.Product
	// Location is the canonical URL to redirect to; set only for StateRedirect.
	// Redirects are permanent (301) for search-engine semantics.
	Location string
}

// Decide applies the redirect policy to a finished resolution. One-shot per
// request: retries against the store belong to the Resolver, not here.
//
//	slug-shaped, resolved, canonical slug matches      -> DIRECT_SERVE
//	slug-shaped, resolved via legacy/stale slug        -> REDIRECT to canonical
//	opaque-id-shaped, resolved, has canonical slug     -> REDIRECT to canonical
//	opaque-id-shaped, resolved, no slug yet            -> DIRECT_SERVE at ID URL
//	resolution failed (any shape)                      -> NOT_FOUND
func Decide(kind IdentifierKind, identifier string, product *model.Product, err error) Outcome {
	if err != nil || product == nil {
		return Outcome{State: StateNotFound}
	}

	canonical := product.Slug
	if canonical == "" {
		// Cannot redirect to a slug that does not exist yet.
		return Outcome{State: StateDirectServe, Product: product}
	}

	if kind == KindSlug && identifier == canonical {
		return Outcome{State: StateDirectServe, Product: product}
	}

	return Outcome{
		State:    StateRedirect,
		Product:  product,
		Location: "/products/" + canonical,
	}
}
