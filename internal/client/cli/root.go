package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gymclient/internal/client/services"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.email != "" {
		s = a.email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the previous session (or asks for credentials), starts the
// connectivity watcher and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the gym client (type 'help' for commands)")

	route, err := a.authService.Bootstrap(ctx)
	if err != nil {
		return
	}

	if route == services.RouteAuthenticated {
		a.setLoggedIn("")
		printlnFn("Session restored.")
	} else {
		_ = a.Login(ctx)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
