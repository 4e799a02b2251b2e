package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrSignatureMismatch = errors.New("payment signature mismatch")

// PaymentVerifier checks that a payment-completion callback genuinely came
// from the payment provider. The provider signs "orderID|paymentID" with
// HMAC-SHA256 under the shared key secret and sends the hex digest along
// with the callback.
type PaymentVerifier interface {
	Sign(orderID, paymentID string) string
	Verify(orderID, paymentID, signature string) error
}

type hmacVerifier struct {
	secret []byte
}

func NewPaymentVerifier(secret string) (PaymentVerifier, error) {
	if secret == "" {
		return nil, errors.New("payment secret required")
	}
	return &hmacVerifier{secret: []byte(secret)}, nil
}

func (v *hmacVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the expected digest and compares in constant time.
func (v *hmacVerifier) Verify(orderID, paymentID, signature string) error {
	expected := v.Sign(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
