package util

import (
	"log"

	"github.com/google/uuid"
)

// IDGenerator hands out fresh identifiers for transaction, authorization,
// sequence and cancellation ids.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return GenerateUUID()
}

func GenerateUUID() string {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		log.Fatalf("Failed to generate UUID: %v", err)
	}
	return newUUID.String()
}
