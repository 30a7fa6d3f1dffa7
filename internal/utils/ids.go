package utils

import (
	"log"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateNanoID returns a 16 character lowercase id for event envelopes.
func GenerateNanoID() string {
	id, err := gonanoid.Generate(idAlphabet, 16)
	if err != nil {
		log.Printf("nanoid generation failed, falling back to uuid: %v", err)
		return uuid.New().String()
	}
	return id
}

func GenerateUUID() string {
	return uuid.New().String()
}
