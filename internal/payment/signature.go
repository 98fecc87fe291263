// Package payment talks to the payment gateway: it creates gateway orders
// and authenticates the gateway's payment callbacks.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	// ErrSignatureMismatch means the callback was not signed with our secret
	ErrSignatureMismatch = errors.New("invalid payment signature")
	// ErrMissingSecret means no gateway secret is configured
	ErrMissingSecret = errors.New("payment gateway secret not configured")
)

// Sign returns the hex HMAC-SHA256 of "orderID|paymentID" under secret
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a gateway callback signature in constant time
func Verify(secret, orderID, paymentID, signature string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	expected := Sign(secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
