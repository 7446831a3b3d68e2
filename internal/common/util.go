package common

import "crypto/rand"

// GenerateRandByteArray returns n cryptographically random bytes.
// Panics if the system entropy source fails.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
