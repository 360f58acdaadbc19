package credstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gymclient/internal/common"
	"github.com/dmitrijs2005/gymclient/internal/cryptox"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	open func(t *testing.T) Store
}

func backends() []backend {
	return []backend{
		{name: "memory", open: func(t *testing.T) Store { return NewMemoryStore() }},
		{name: "sqlite", open: func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "creds.db"))
			require.NoError(t, err)
			return s
		}},
		{name: "sqlite-memory", open: func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), ":memory:")
			require.NoError(t, err)
			return s
		}},
		{name: "bolt", open: func(t *testing.T) Store {
			s, err := OpenBolt(filepath.Join(t.TempDir(), "creds.bolt"))
			require.NoError(t, err)
			return s
		}},
		{name: "sealed", open: func(t *testing.T) Store {
			sealer, err := cryptox.NewSealer(common.GenerateRandByteArray(cryptox.KeySize))
			require.NoError(t, err)
			return NewSealedStore(NewMemoryStore(), sealer)
		}},
	}
}

func TestStoreContract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("get absent", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				v, ok, err := s.Get(ctx, "absent")
				require.NoError(t, err)
				require.False(t, ok)
				require.Empty(t, v)
			})

			t.Run("set then get", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				require.NoError(t, s.Set(ctx, common.KeyAccess, "A1"))
				v, ok, err := s.Get(ctx, common.KeyAccess)
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, "A1", v)
			})

			t.Run("set overwrites", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				require.NoError(t, s.Set(ctx, "k", "old"))
				require.NoError(t, s.Set(ctx, "k", "new"))
				v, _, err := s.Get(ctx, "k")
				require.NoError(t, err)
				require.Equal(t, "new", v)
			})

			t.Run("empty value is stored", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				require.NoError(t, s.Set(ctx, "k", ""))
				v, ok, err := s.Get(ctx, "k")
				require.NoError(t, err)
				require.True(t, ok)
				require.Empty(t, v)
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				require.NoError(t, s.Delete(ctx, "never-set"))

				require.NoError(t, s.Set(ctx, "x", "1"))
				require.NoError(t, s.Delete(ctx, "x"))
				_, ok, err := s.Get(ctx, "x")
				require.NoError(t, err)
				require.False(t, ok)

				require.NoError(t, s.Delete(ctx, "x"))
			})

			t.Run("set many writes the pair", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				require.NoError(t, s.Set(ctx, common.KeyUserID, "7"))
				require.NoError(t, s.SetMany(ctx, map[string]string{
					common.KeyAccess:  "A2",
					common.KeyRefresh: "R2",
				}))

				for k, want := range map[string]string{common.KeyAccess: "A2", common.KeyRefresh: "R2", common.KeyUserID: "7"} {
					v, ok, err := s.Get(ctx, k)
					require.NoError(t, err)
					require.True(t, ok, k)
					require.Equal(t, want, v, k)
				}
			})

			t.Run("delete many", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}))
				require.NoError(t, s.DeleteMany(ctx, "a", "b", "missing"))

				_, ok, err := s.Get(ctx, "a")
				require.NoError(t, err)
				require.False(t, ok)
				_, ok, err = s.Get(ctx, "b")
				require.NoError(t, err)
				require.False(t, ok)
				v, ok, err := s.Get(ctx, "c")
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, "3", v)
			})

			t.Run("closed store is unavailable", func(t *testing.T) {
				s := b.open(t)
				require.NoError(t, s.Close())

				_, _, err := s.Get(ctx, common.KeyAccess)
				require.ErrorIs(t, err, ErrStorageUnavailable)
				require.ErrorIs(t, s.Set(ctx, common.KeyAccess, "A"), ErrStorageUnavailable)
				require.ErrorIs(t, s.SetMany(ctx, map[string]string{"a": "b"}), ErrStorageUnavailable)
				require.ErrorIs(t, s.DeleteMany(ctx, "a"), ErrStorageUnavailable)
			})
		})
	}
}
