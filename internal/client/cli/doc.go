// Package cli provides the interactive gym command-line client.
//
// It wires configuration, the credential store, the API client and services
// into a REPL that stands in for the mobile screens. Typical flow: restore
// the stored session (or prompt for credentials), start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Logout
//   - Profile and memberships
//   - Class schedule, booking and cancellation
//   - Gym events
//
// An expired session never ends the program: the user is told and moved
// back to the login commands. The REPL is started via App.Run(ctx), which
// blocks until the user exits. See App, StartOnlineStatusWatcher, and
// runREPL for details.
package cli
