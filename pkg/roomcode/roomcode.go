// Package roomcode generates human-shareable room codes in the form
// XXX-XXXX-XXX, e.g. "oBE-FdOU-hTd".
package roomcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// alphabet is the 52-symbol set of mixed-case ASCII letters
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var codePattern = regexp.MustCompile(`^[A-Za-z]{3}-[A-Za-z]{4}-[A-Za-z]{3}$`)

// New generates a fresh room code
func New() (string, error) {
	chars := make([]byte, 10)
	max := big.NewInt(int64(len(alphabet)))
	for i := range chars {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		chars[i] = alphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", chars[0:3], chars[3:7], chars[7:10]), nil
}

// Valid reports whether s is a well-formed room code
func Valid(s string) bool {
	return codePattern.MatchString(s)
}
