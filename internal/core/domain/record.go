package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Record limits enforced by the form layer.
const (
	// MinCategories is the fewest categories a submitted record may carry.
	MinCategories = 1

	// MaxCategories is the most categories a submitted record may carry.
	MaxCategories = 2
)

// Record is a creature entry held by the remote collection.
// The JSON layout matches the collection endpoint.
type Record struct {
	// ID is assigned by the server. Zero means the record was never stored.
	ID int `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is the display name, also the search key.
	Name string `json:"name" yaml:"name"`

	// HP is the creature's hit points.
	HP int `json:"hp" yaml:"hp"`

	// CP is the creature's combat points.
	CP int `json:"cp" yaml:"cp"`

	// Picture is an image URL.
	Picture string `json:"picture,omitempty" yaml:"picture,omitempty"`

	// Categories holds the record's labels, in selection order.
	Categories []string `json:"types" yaml:"types"`

	// Created is when the record was first catalogued.
	Created time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

// IsNew returns true if the record has no server-assigned id.
func (r Record) IsNew() bool {
	return r.ID == 0
}

// IsZero reports whether r is the empty record used as a fallback sentinel.
func (r Record) IsZero() bool {
	return r.ID == 0 && r.Name == "" && len(r.Categories) == 0
}

// HasCategory reports whether the record carries the given category.
func (r Record) HasCategory(category string) bool {
	return slices.Contains(r.Categories, category)
}

// CanToggleCategory reports whether the form may flip the given category.
// The last remaining category cannot be removed, and a third cannot be added.
func (r Record) CanToggleCategory(category string) bool {
	has := r.HasCategory(category)
	if len(r.Categories) <= MinCategories && has {
		return false
	}
	if len(r.Categories) >= MaxCategories && !has {
		return false
	}
	return true
}

// ToggleCategory adds the category if absent or removes it if present.
// It does not check CanToggleCategory; callers decide whether to allow it.
func (r *Record) ToggleCategory(category string) {
	if i := slices.Index(r.Categories, category); i >= 0 {
		r.Categories = slices.Delete(r.Categories, i, i+1)
		return
	}
	r.Categories = append(r.Categories, category)
}

// Validate checks the record against the submission rules.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if len(r.Categories) < MinCategories || len(r.Categories) > MaxCategories {
		return fmt.Errorf("%w: got %d", ErrCategoryCount, len(r.Categories))
	}
	for _, c := range r.Categories {
		if !IsCategory(c) {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
	}
	return nil
}

// Clone returns a copy that does not share the categories slice.
func (r Record) Clone() Record {
	r.Categories = slices.Clone(r.Categories)
	return r
}
