package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gymclient/internal/client/client"
	"github.com/dmitrijs2005/gymclient/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and authenticates. On success the
// session is stored by the client and the prompt switches to the logged in
// commands. The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Login(ctx, email, string(password)); err != nil {
		a.report(ctx, err)
		return err
	}

	a.setLoggedIn(strings.TrimSpace(email))
	printlnFn("Login successful")
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.report(ctx, err)
		return err
	}
	a.setLoggedOut()
	printlnFn("Logged out")
	return nil
}

// report turns a command error into a message for the user. Session loss
// moves the user back to the unauthenticated commands; nothing here ends the
// program.
func (a *App) report(ctx context.Context, err error) {
	var rf *client.RequestFailedError

	switch {
	case errors.Is(err, client.ErrSessionExpired):
		a.setLoggedOut()
		printlnFn("Your session has expired, please log in again.")
	case errors.Is(err, client.ErrNotLoggedIn):
		a.setLoggedOut()
		printlnFn("You are not logged in.")
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		printlnFn("Server unavailable, please try again later.")
	case errors.Is(err, client.ErrStaleResponse):
		printlnFn("The session changed while the request was running; result discarded.")
	case errors.As(err, &rf):
		if rf.Detail != "" {
			printlnFn("Request failed:", rf.Detail)
		} else {
			printlnFn("Request failed with status", rf.StatusCode)
		}
	case errors.Is(err, common.ErrEmptyEmail),
		errors.Is(err, common.ErrEmptyPassword),
		errors.Is(err, common.ErrInvalidDate),
		errors.Is(err, common.ErrInvalidID):
		printlnFn(err.Error())
	case errors.Is(err, context.Canceled):
		// interrupted by the user
	default:
		printlnFn("Error:", err.Error())
	}

	if a.log != nil {
		a.log.Debug(ctx, "command failed", "error", err)
	}
}
