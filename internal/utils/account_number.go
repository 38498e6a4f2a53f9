package utils

import (
	"math/big"

	"github.com/google/uuid"
)

// accountNumberLength is the number of digits in a human-facing account
// number.
const accountNumberLength = 12

// GenerateAccountNumber returns a 12-digit numeric account number derived
// from a random UUID's integer form. Uniqueness is enforced by the store's
// unique constraint; collisions at this length are vanishingly rare.
func GenerateAccountNumber() string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:])
	s := n.String()
	// A 128-bit integer always has at least 12 digits in practice, but guard
	// against a tiny random value anyway.
	for len(s) < accountNumberLength {
		s = "0" + s
	}
	return s[:accountNumberLength]
}
