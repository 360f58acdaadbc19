package credstore

import (
	"context"

	"github.com/dmitrijs2005/gymclient/internal/cryptox"
)

// SealedStore encrypts values before handing them to the wrapped Store.
// The key name is bound into each ciphertext.
type SealedStore struct {
	inner  Store
	sealer *cryptox.Sealer
}

func NewSealedStore(inner Store, sealer *cryptox.Sealer) *SealedStore {
	return &SealedStore{inner: inner, sealer: sealer}
}

func (s *SealedStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	value, err := s.sealer.Open(sealed, key)
	if err != nil {
		return "", false, unavailable("decrypt", key, err)
	}
	return value, true, nil
}

func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, key, s.sealer.Seal(value, key))
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *SealedStore) SetMany(ctx context.Context, values map[string]string) error {
	sealed := make(map[string]string, len(values))
	for k, v := range values {
		sealed[k] = s.sealer.Seal(v, k)
	}
	return s.inner.SetMany(ctx, sealed)
}

func (s *SealedStore) DeleteMany(ctx context.Context, keys ...string) error {
	return s.inner.DeleteMany(ctx, keys...)
}

func (s *SealedStore) Close() error {
	return s.inner.Close()
}
