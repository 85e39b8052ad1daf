package utils

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"math/rand"
)

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.Intn(max-min+1) + min //nolint:gosec // Game logic randomness, not security critical
}

// SecureRandomInt returns a random integer between min and max (inclusive) using crypto/rand
func SecureRandomInt(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("min cannot be greater than max")
	}
	diff := big.NewInt(int64(max - min + 1))
	n, err := crand.Int(crand.Reader, diff)
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + min, nil
}

// RollDie returns a roll of a die with the given number of sides, from 1 to sides.
// It prefers crypto/rand and falls back to math/rand if that fails.
func RollDie(sides int) int {
	if n, err := SecureRandomInt(1, sides); err == nil {
		return n
	}
	return RandomInt(1, sides)
}
