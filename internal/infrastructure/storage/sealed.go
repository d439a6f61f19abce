package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/avatarctic/clinic-console/internal/core/ports"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnsealable is returned for stored values that fail authentication under the current key.
var ErrUnsealable = errors.New("stored value cannot be unsealed")

// SealedStore encrypts values before they reach the inner store, so bearer and refresh
// tokens are never written in clear. Each value is a random nonce followed by the secretbox.
type SealedStore struct {
	inner ports.Store
	key   [32]byte
}

// NewSealedStore derives the box key from secret.
func NewSealedStore(inner ports.Store, secret string) *SealedStore {
	return &SealedStore{inner: inner, key: sha256.Sum256([]byte(secret))}
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, false, ErrUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, false, ErrUnsealable
	}
	return plain, true, nil
}

func (s *SealedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], value, &nonce, &s.key)
	return s.inner.Set(ctx, key, sealed, ttl)
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
