// Package services contains the application services of the gym client.
// This file defines the authentication service: login, logout, the session
// bootstrapper run at startup and the liveness probe.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/client"
	"github.com/dmitrijs2005/gymclient/internal/client/credstore"
	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/dmitrijs2005/gymclient/internal/client/tokens"
	"github.com/dmitrijs2005/gymclient/internal/common"
	"github.com/dmitrijs2005/gymclient/internal/logging"
)

// Route is the area the user lands in after startup.
type Route int

const (
	RouteUnauthenticated Route = iota
	RouteAuthenticated
)

func (r Route) String() string {
	switch r {
	case RouteAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate input, authenticate against the server, store the session.
//   - Logout: forget the stored session.
//   - Bootstrap: decide the initial route from the stored session.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	Bootstrap(ctx context.Context) (Route, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  credstore.Store
	log    logging.Logger
	skew   time.Duration
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the API client and the
// credential store the client reads its tokens from.
func NewAuthService(c client.Client, store credstore.Store, log logging.Logger, expirySkew time.Duration) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, store: store, log: log, skew: expirySkew, now: time.Now}
}

// Login checks that both fields are present before any network call.
func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, common.ErrEmptyEmail
	}
	if password == "" {
		return nil, common.ErrEmptyPassword
	}
	return a.client.Login(ctx, email, password)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.client.Logout(ctx)
}

// Bootstrap runs once at startup.
//
// No readable access token means the user has to log in; the network is not
// touched. A token whose expiry is known to have passed is refreshed first;
// if that fails the stored credentials are removed. Anything else is
// optimistically treated as logged in and the first 401 is left to the
// request wrapper. The only error returned is ctx's.
func (a *authService) Bootstrap(ctx context.Context) (Route, error) {
	access, ok, err := a.store.Get(ctx, common.KeyAccess)
	if err != nil {
		a.log.Warn(ctx, "credential store unreadable at startup", "error", err)
		return RouteUnauthenticated, nil
	}
	if !ok || access == "" {
		return RouteUnauthenticated, nil
	}

	expired, known := tokens.Expired(access, a.now(), a.skew)
	if !known || !expired {
		return RouteAuthenticated, nil
	}

	a.log.Info(ctx, "stored access token expired, refreshing")
	if _, err := a.client.RefreshAccessToken(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return RouteUnauthenticated, ctxErr
		}
		if errors.Is(err, client.ErrStaleResponse) {
			return a.routeForStored(ctx), nil
		}
		a.log.Info(ctx, "session could not be restored", "error", err)
		if err := a.store.DeleteMany(ctx, common.SessionKeys...); err != nil {
			a.log.Error(ctx, "failed to clear credentials", "error", err)
		}
		return RouteUnauthenticated, nil
	}
	return RouteAuthenticated, nil
}

// routeForStored is used when the session was replaced while it was being
// restored; whatever is stored now belongs to the newer session.
func (a *authService) routeForStored(ctx context.Context) Route {
	access, ok, err := a.store.Get(ctx, common.KeyAccess)
	if err != nil || !ok || access == "" {
		return RouteUnauthenticated
	}
	return RouteAuthenticated
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
