package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer verifies (and, for tests, produces) the HMAC-SHA256 signature
// Razorpay sends with payment callbacks. The signed body is
// "<orderID>|<paymentID>".
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// Sign computes the hex HMAC for an order/payment pair.
func (s *Signer) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the expected HMAC. A missing
// secret makes every signature invalid; it never panics or errors, so callers
// can treat false uniformly as a failed payment.
func (s *Signer) Verify(orderID, paymentID, signature string) bool {
	if s.secret == "" || signature == "" {
		return false
	}
	expected := s.Sign(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// MockVerifier accepts every signature. Only wired when the mock payments
// mode is configured explicitly.
type MockVerifier struct{}

func (MockVerifier) Verify(orderID, paymentID, signature string) bool {
	return true
}
