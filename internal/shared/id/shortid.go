package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// Prefixes for different entity types (Stripe-style)
const (
	PrefixCenter      = "ctr"
	PrefixUser        = "usr"
	PrefixSubject     = "sbj"
	PrefixObservation = "obs"
	PrefixSummary     = "sum"
	PrefixTypeConfig  = "otc"
)

// Generate creates a random short ID with the specified length using Base62 encoding.
// The generated ID is cryptographically random and URL-safe.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

// MustGenerateWithPrefix creates a prefixed ID and panics on error.
func MustGenerateWithPrefix(prefix string, length int) string {
	id, err := GenerateWithPrefix(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}

// HasPrefix reports whether sid carries the given entity prefix.
func HasPrefix(sid, prefix string) bool {
	return strings.HasPrefix(sid, prefix+"_")
}

func NewCenterID() (string, error)      { return GenerateWithPrefix(PrefixCenter, DefaultLength) }
func NewUserID() (string, error)        { return GenerateWithPrefix(PrefixUser, DefaultLength) }
func NewSubjectID() (string, error)     { return GenerateWithPrefix(PrefixSubject, DefaultLength) }
func NewObservationID() (string, error) { return GenerateWithPrefix(PrefixObservation, DefaultLength) }
func NewSummaryID() (string, error)     { return GenerateWithPrefix(PrefixSummary, DefaultLength) }
func NewTypeConfigID() (string, error)  { return GenerateWithPrefix(PrefixTypeConfig, DefaultLength) }
