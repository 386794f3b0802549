// Package joincode generates short human-shareable session codes.
package joincode

import (
	"math/rand/v2"
	"strings"
)

// Length is the fixed code length.
const Length = 8

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces pseudo-random join codes. Codes are NOT cryptographically
// secure and uniqueness is not guaranteed here; the session repository checks
// for collisions against the store.
type Generator struct {
	intN func(n int) int
}

// New returns a Generator backed by math/rand.
func New() *Generator {
	return &Generator{intN: rand.IntN}
}

// NewWithSource returns a Generator with a custom int source, for tests.
func NewWithSource(intN func(n int) int) *Generator {
	return &Generator{intN: intN}
}

// Generate returns an 8-character uppercase alphanumeric code.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(alphabet[g.intN(len(alphabet))])
	}
	return b.String()
}

// Normalize canonicalizes caller-supplied codes before lookup. Generated codes
// are always uppercase; user input may not be.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
