package order

import (
	"crypto/rand"
)

// tokenAlphabet omits characters that are easy to misread on a thermal
// receipt (I, L, O, U, 0, 1).
const tokenAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

// tokenLen of 8 over a 30-character alphabet gives ~39 bits, comfortably
// beyond what a handful of concurrent terminals can collide on.
const tokenLen = 8

// NewToken generates a short, human-presentable order token. Uniqueness is
// probabilistic; the UUID storage id is the authoritative identifier.
func NewToken() string {
	buf := make([]byte, tokenLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf)
}
