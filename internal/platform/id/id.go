package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID generates random v4 identifiers. Every stored entity (user, goal,
// plan, daily action) is keyed by one.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
