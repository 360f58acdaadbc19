package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/client"
	"github.com/dmitrijs2005/gymclient/internal/client/config"
	"github.com/dmitrijs2005/gymclient/internal/client/credstore"
	"github.com/dmitrijs2005/gymclient/internal/client/services"
	"github.com/dmitrijs2005/gymclient/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	gymService  services.GymService
	store       credstore.Store
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer
	now         func() time.Time

	mu       sync.Mutex
	Mode     Mode
	email    string
	loggedIn bool
}

// NewApp opens the credential store and wires the API client and services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := credstore.Open(ctx, credstore.Options{
		Driver:  c.StoreDriver,
		Path:    c.StorePath,
		KeyPath: c.StoreKeyPath,
	})
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	a := &App{
		config: c,
		store:  store,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
	}

	apiClient, err := client.New(client.Options{
		BaseURL:          c.APIBaseURL,
		Store:            store,
		Logger:           log,
		Timeout:          c.RequestTimeout,
		ExpirySkew:       c.ExpirySkew,
		OnSessionExpired: a.onSessionExpired,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a.authService = services.NewAuthService(apiClient, store, log, c.ExpirySkew)
	a.gymService = services.NewGymService(apiClient)
	return a, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) setLoggedIn(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = true
	a.email = email
}

func (a *App) setLoggedOut() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = false
	a.email = ""
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

// onSessionExpired runs when the client tears the session down; the next
// prompt shows the unauthenticated area.
func (a *App) onSessionExpired(ctx context.Context) {
	a.setLoggedOut()
}

// Run blocks in the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.authService.Close(ctx); err != nil {
			a.log.Warn(ctx, "close api client", "error", err)
		}
		if a.store != nil {
			if err := a.store.Close(); err != nil {
				a.log.Warn(ctx, "close credential store", "error", err)
			}
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the backend every interval and flips Mode
// accordingly. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	timeout := 3 * time.Second
	if a.config != nil && a.config.RequestTimeout > 0 && a.config.RequestTimeout < timeout {
		timeout = a.config.RequestTimeout
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		if a.mode() != ModeOffline {
			a.log.Debug(ctx, "backend unreachable", "error", err)
			a.setMode(ModeOffline)
		}
		return
	}
	a.setMode(ModeOnline)
}
