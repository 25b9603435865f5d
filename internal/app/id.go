package app

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/neomorfeo/wastebill/internal/domain"
)

// newID produces a random UUID string.
// Isolated here so the ID strategy can evolve independently.
func newID() string {
	return uuid.NewString()
}

// validateID rejects a single malformed identifier before any store access.
func validateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a valid UUID", id)}
	}
	return nil
}

// validateIDs rejects an empty set or any malformed identifier in it.
func validateIDs(field string, ids []string) error {
	if len(ids) == 0 {
		return &domain.ValidationError{Field: field, Reason: "must not be empty"}
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return &domain.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a valid UUID", id)}
		}
	}
	return nil
}
