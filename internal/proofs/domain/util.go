package domain

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// generateID generates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// generateVerificationCode mints a human-shareable code of the form
// PROOF_<base36 millisecond timestamp>_<6 random base36 characters>.
// Uniqueness is overwhelmingly likely but not guaranteed by construction;
// the issuer checks the store and retries on collision.
func generateVerificationCode(now time.Time) (string, error) {
	ts := strconv.FormatInt(now.UnixMilli(), 36)

	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading randomness: %w", err)
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}

	return strings.ToUpper("proof_" + ts + "_" + string(buf)), nil
}
