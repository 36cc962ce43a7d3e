package utils

import (
	"math/rand"
)

// GenerateRandomCode returns a numeric code of the given length, used for
// password reset emails
func GenerateRandomCode(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}
