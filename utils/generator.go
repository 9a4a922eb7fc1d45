package utils

import "math/rand"

const orderNumberLength = 10
const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber returns a human-readable order reference like
// ORD-7F3K9Q2M1X. Safe for concurrent use; uniqueness is backed by the
// order_number unique index.
func GenerateOrderNumber() string {
	b := make([]byte, orderNumberLength)
	for i := range b {
		b[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return "ORD-" + string(b)
}
