package utils

import (
	"crypto/rand"
	"math/big"
)

const couponCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCouponCode returns a random 6-character uppercase alphanumeric code.
func GenerateCouponCode() string {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(couponCharset))))
		if err != nil {
			// crypto/rand failing is effectively unrecoverable; fall back
			// to a fixed character rather than panicking in a request.
			code[i] = couponCharset[0]
			continue
		}
		code[i] = couponCharset[n.Int64()]
	}
	return string(code)
}
