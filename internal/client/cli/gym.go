package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/client"
	"github.com/dmitrijs2005/gymclient/internal/client/services"
	"github.com/dmitrijs2005/gymclient/internal/common"
)

func (a *App) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// Profile prints the user's profile and booked classes.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.gymService.Profile(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}

	printlnFn(fmt.Sprintf("%s %s <%s>", p.FirstName, p.LastName, p.Email))
	if p.MembershipName != "" {
		printlnFn("Membership:", p.MembershipName)
	}
	if len(p.BookedClasses) == 0 {
		printlnFn("No booked classes.")
		return nil
	}
	printlnFn("Booked classes:")
	for _, b := range p.BookedClasses {
		printlnFn(fmt.Sprintf("  #%d %s %s %s-%s", b.Class.ClassID, b.Class.Name, b.Class.Date, b.Class.StartTime, b.Class.EndTime))
	}
	return nil
}

func (a *App) Memberships(ctx context.Context) error {
	ms, err := a.gymService.Memberships(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(ms) == 0 {
		printlnFn("No active memberships.")
		return nil
	}
	for _, m := range ms {
		printlnFn(m.String())
	}
	return nil
}

// Classes lists the classes of the day given as the first argument, today
// when omitted. Booked classes are marked with '*'.
func (a *App) Classes(ctx context.Context, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	day, err := services.ParseDate(arg, a.clock())
	if err != nil {
		a.report(ctx, err)
		return err
	}

	classes, err := a.gymService.Classes(ctx, day)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(classes) == 0 {
		printlnFn("No classes on", day.Format(client.DateLayout))
		return nil
	}
	for _, c := range classes {
		printlnFn(c.String())
	}
	return nil
}

func (a *App) Book(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: book <classId> <membershipId>")
		return common.ErrInvalidID
	}

	classID, err := parseID(args[0])
	if err != nil {
		a.report(ctx, err)
		return err
	}
	membershipID, err := parseID(args[1])
	if err != nil {
		a.report(ctx, err)
		return err
	}

	if err := a.gymService.Book(ctx, classID, membershipID); err != nil {
		a.report(ctx, err)
		return err
	}
	printlnFn("Class booked.")
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: cancel <classId>")
		return common.ErrInvalidID
	}

	classID, err := parseID(args[0])
	if err != nil {
		a.report(ctx, err)
		return err
	}

	if err := a.gymService.Cancel(ctx, classID); err != nil {
		a.report(ctx, err)
		return err
	}
	printlnFn("Booking cancelled.")
	return nil
}

func (a *App) Events(ctx context.Context) error {
	events, err := a.gymService.Events(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if len(events) == 0 {
		printlnFn("No upcoming events.")
		return nil
	}
	for _, e := range events {
		printlnFn(e.String())
	}
	return nil
}

// Status prints connectivity and session state.
func (a *App) Status(ctx context.Context) error {
	mode := a.mode()
	if mode == "" {
		mode = "unknown"
	}
	session := "logged out"
	if a.isLoggedIn() {
		session = "logged in"
	}
	printlnFn(fmt.Sprintf("Server: %s, session: %s", mode, session))
	return nil
}
