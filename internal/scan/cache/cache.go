package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"parichay/internal/decoder"
)

// ErrMiss is returned when no cached decode exists for the payload hash.
var ErrMiss = errors.New("decode cache miss")

// Cache stores decoded records keyed by payload hash so identical payloads
// skip the decode pipeline.
type Cache interface {
	Find(ctx context.Context, payloadHash string) (*decoder.Record, error)
	Save(ctx context.Context, payloadHash string, record *decoder.Record) error
}

// Hash derives the cache key and the stored payload hash. The raw payload is
// PII-bearing, so only this digest ever leaves the request scope.
func Hash(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Noop is used when no Redis instance is configured: every lookup misses.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Find(context.Context, string) (*decoder.Record, error) {
	return nil, ErrMiss
}

func (Noop) Save(context.Context, string, *decoder.Record) error {
	return nil
}
