package resolver

import "regexp"

// IdentifierKind classifies an incoming /products/{identifier} path segment.
type IdentifierKind int

const (
	// KindOpaqueID is a canonical 36-character UUID.
	KindOpaqueID IdentifierKind = iota
	// KindSlug is anything else; the classifier fails open toward the
	// human-readable path.
	KindSlug
)

func (k IdentifierKind) String() string {
	if k == KindOpaqueID {
		return "opaque-id"
	}
	return "slug"
}

var uuidShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Classify decides whether a path segment is opaque-ID-shaped or slug-shaped.
// Pure function, never fails: unrecognized input is slug-shaped.
func Classify(segment string) IdentifierKind {
	if uuidShape.MatchString(segment) {
		return KindOpaqueID
	}
	return KindSlug
}
