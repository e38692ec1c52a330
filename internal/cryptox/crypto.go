// Package cryptox holds the credential and payment-signature primitives shared
// by the client and the mock API.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// SignPayment returns the hex HMAC-SHA256 of "orderID|paymentID" under secret,
// the signature format of the checkout gateway.
func SignPayment(secret []byte, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPayment checks signature in constant time.
func VerifyPayment(secret []byte, orderID, paymentID, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal(got, mac.Sum(nil))
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
}

// CheckPassword reports whether password matches hash. An empty hash never
// matches, which is how accounts without a password are represented.
func CheckPassword(hash, password []byte) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}
