package order

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"orderreview/internal/pkg/errs"
	"orderreview/internal/pkg/guard"
)

// TokenLength is the hex length of a confirmation token (20 random bytes).
const TokenLength = 40

var ErrConfirmationTokenIsNotConstructed = errs.NewValueIsRequiredError(
	"confirmation token must be created via NewConfirmationToken")

// ConfirmationToken is the secret mailed to the customer. Holding it proves the
// right to confirm or cancel one order, independently of a session.
type ConfirmationToken struct {
	value string
	guard guard.ConstructorGuard
}

// NewConfirmationToken accepts a lowercase hex string of TokenLength characters.
func NewConfirmationToken(value string) (ConfirmationToken, error) {
	if len(value) != TokenLength {
		return ConfirmationToken{}, errs.NewValueIsInvalidErrorWithCause(
			"confirmationToken", fmt.Errorf("expected %d characters, got %d", TokenLength, len(value)))
	}
	if _, err := hex.DecodeString(value); err != nil {
		return ConfirmationToken{}, errs.NewValueIsInvalidErrorWithCause("confirmationToken", err)
	}
	return ConfirmationToken{value: value, guard: guard.NewConstructorGuard()}, nil
}

func (t ConfirmationToken) Validate() error {
	return t.guard.Validate(ErrConfirmationTokenIsNotConstructed)
}

// Value is the raw secret. It only leaves the service inside the customer email.
func (t ConfirmationToken) Value() string {
	return t.value
}

// Matches compares in constant time.
func (t ConfirmationToken) Matches(raw string) bool {
	return subtle.ConstantTimeCompare([]byte(t.value), []byte(raw)) == 1
}

// Digest is the SHA-256 hex digest kept after the token is consumed.
func (t ConfirmationToken) Digest() string {
	return TokenDigest(t.value)
}

// TokenDigest hashes a presented token for comparison with a consumed digest.
func TokenDigest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
