package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"orderreview/internal/core/domain/model/order"
)

// tokenBytes is the entropy of a confirmation token: 160 bits.
const tokenBytes = order.TokenLength / 2

// TokenGenerator issues confirmation tokens.
type TokenGenerator interface {
	Generate() (order.ConfirmationToken, error)
}

var _ TokenGenerator = (*RandomTokenGenerator)(nil)

// RandomTokenGenerator hex encodes bytes read from a cryptographic source.
type RandomTokenGenerator struct {
	source io.Reader
}

// NewRandomTokenGenerator reads from crypto/rand.
func NewRandomTokenGenerator() *RandomTokenGenerator {
	return &RandomTokenGenerator{source: rand.Reader}
}

// NewRandomTokenGeneratorFromReader is used by tests to make tokens deterministic.
func NewRandomTokenGeneratorFromReader(source io.Reader) *RandomTokenGenerator {
	return &RandomTokenGenerator{source: source}
}

func (g *RandomTokenGenerator) Generate() (order.ConfirmationToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(g.source, buf); err != nil {
		return order.ConfirmationToken{}, fmt.Errorf("read token entropy: %w", err)
	}
	return order.NewConfirmationToken(hex.EncodeToString(buf))
}
