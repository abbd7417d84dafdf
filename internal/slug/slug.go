// Package slug derives URL-safe product slugs from name and serial number.
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmpty is returned when no slug can be derived from the inputs.
// Callers must refuse to persist an empty slug.
var ErrEmpty = errors.New("slug generation produced an empty result")

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]+`)
	separators   = regexp.MustCompile(`[\s-]+`)
)

// Generate derives a slug from a product name and serial number.
// The serial number adds entropy; when absent the name alone is used.
// Deterministic: no randomness, no timestamps.
func Generate(name, serialNumber string) string {
	base := name
	if serialNumber != "" {
		base = name + " " + serialNumber
	}
	s := strings.ToLower(base)
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Assigner hands out unique slugs for a batch of products. Duplicates of an
// already-assigned base slug get an incrementing numeric suffix (-1, -2, ...).
type Assigner struct {
	taken map[string]bool
}

func NewAssigner() *Assigner {
	return &Assigner{taken: make(map[string]bool)}
}

// Reserve registers a slug that already exists in the store so that later
// assignments cannot collide with it. Reserving makes backfills idempotent:
// existing slugs are never rewritten, only defended.
func (a *Assigner) Reserve(slug string) {
	if slug != "" {
		a.taken[slug] = true
	}
}

// Assign generates a slug for the given inputs and makes it unique within
// the batch. Returns ErrEmpty when the inputs yield no usable slug.
func (a *Assigner) Assign(name, serialNumber string) (string, error) {
	base := Generate(name, serialNumber)
	if base == "" {
		return "", ErrEmpty
	}
	candidate := base
	for i := 1; a.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	a.taken[candidate] = true
	return candidate, nil
}
