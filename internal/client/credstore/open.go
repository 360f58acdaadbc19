package credstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gymclient/internal/cryptox"
	"github.com/dmitrijs2005/gymclient/internal/filex"
)

// Supported values of Options.Driver.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Path is the database file; ignored by the memory driver.
	Path string
	// KeyPath, when set, enables at-rest encryption with the key stored there.
	KeyPath string
}

// Open builds the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)

	switch opts.Driver {
	case DriverMemory:
		store = NewMemoryStore()
	case DriverSQLite, "":
		path, perr := filex.EnsureParentDir(opts.Path)
		if perr != nil {
			return nil, unavailable("open", "", perr)
		}
		store, err = OpenSQLite(ctx, path)
	case DriverBolt:
		path, perr := filex.EnsureParentDir(opts.Path)
		if perr != nil {
			return nil, unavailable("open", "", perr)
		}
		store, err = OpenBolt(path)
	default:
		return nil, fmt.Errorf("unknown credential store driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if opts.KeyPath == "" {
		return store, nil
	}

	key, err := cryptox.LoadOrCreateKey(opts.KeyPath)
	if err != nil {
		_ = store.Close()
		return nil, unavailable("load key", "", err)
	}
	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		_ = store.Close()
		return nil, unavailable("load key", "", err)
	}
	return NewSealedStore(store, sealer), nil
}
