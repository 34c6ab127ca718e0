package core

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IDGenerator is an interface for generating unique IDs, used to tag each
// orchestrator run for log correlation.
type IDGenerator interface {
	GenerateID() (string, error)
}

// UUIDGenerator is an ID generator that produces v4 UUIDs, suitable for
// correlation IDs that need to be unique across systems (e.g. when a run's
// ID is forwarded to a provider or an external audit log).
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new generator that produces v4 UUIDs.
func NewUUIDGenerator() IDGenerator {
	return &UUIDGenerator{}
}

// GenerateID generates a UUID v4.
func (u *UUIDGenerator) GenerateID() (string, error) {
	return uuid.NewString(), nil
}

// NanoIDGenerator is an ID generator that produces short, URL-safe nano
// IDs, suitable for labelling individual resource invocations within a
// log stream where brevity matters more than global uniqueness.
type NanoIDGenerator struct{}

// NewNanoIDGenerator creates a new generator that produces nano IDs.
func NewNanoIDGenerator() IDGenerator {
	return &NanoIDGenerator{}
}

// GenerateID generates a nano ID.
func (n *NanoIDGenerator) GenerateID() (string, error) {
	return gonanoid.New()
}
