package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Memberships(ctx context.Context) error
	Classes(ctx context.Context, args []string) error
	Book(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	Events(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the gym CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                         show available commands
//	  - login                        authenticate
//	  - status                       connectivity and session state
//	  - exit | quit                  leave the program
//
//	Logged in:
//	  - profile                      name, email and booked classes
//	  - memberships                  active memberships
//	  - classes [YYYY-MM-DD]         classes of a day (today by default)
//	  - book <classId> <membershipId>
//	  - cancel <classId>
//	  - events                       gym events
//	  - logout
//
// Errors returned by command handlers are reported by the handlers
// themselves, so the loop keeps running whatever happens.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gym %s> ", statusFn()))

		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() && requiresLogin(cmd) {
			printlnFn("Please log in first (type 'login').")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, memberships, classes [YYYY-MM-DD], book <classId> <membershipId>, cancel <classId>, events, status, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "memberships":
			_ = a.Memberships(ctx)

		case "classes":
			_ = a.Classes(ctx, args)

		case "book":
			_ = a.Book(ctx, args)

		case "cancel":
			_ = a.Cancel(ctx, args)

		case "events":
			_ = a.Events(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func requiresLogin(cmd string) bool {
	switch cmd {
	case "profile", "memberships", "classes", "book", "cancel", "events", "logout":
		return true
	}
	return false
}
