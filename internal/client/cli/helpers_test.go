package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/dmitrijs2005/gymclient/internal/client/services"
)

// ---- output capture ----

type output struct {
	mu    sync.Mutex
	lines []string
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "")
}

func capturePrintln(t *testing.T) *output {
	t.Helper()
	o := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.lines = append(o.lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return o
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// ---- fake services ----

type fakeAuth struct {
	mu sync.Mutex

	loginEmail string
	loginPass  string
	loginErr   error

	logoutCalled bool
	logoutErr    error

	route        services.Route
	bootstrapErr error

	pingErr   error
	pingCalls int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.Session, error) {
	f.loginEmail, f.loginPass = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.Session{AccessToken: "A1", RefreshToken: "R1", UserID: "7"}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}

func (f *fakeAuth) Bootstrap(context.Context) (services.Route, error) {
	return f.route, f.bootstrapErr
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingErr
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeAuth) Close(context.Context) error { return nil }

type fakeGym struct {
	profile    *models.Profile
	classes    []models.ClassOccurrence
	events     []models.Event
	members    []models.Membership
	err        error
	lastDate   time.Time
	lastClass  int64
	lastMember int64
	bookCalls  int
}

func (f *fakeGym) Profile(context.Context) (*models.Profile, error) { return f.profile, f.err }
func (f *fakeGym) Memberships(context.Context) ([]models.Membership, error) {
	return f.members, f.err
}
func (f *fakeGym) Classes(_ context.Context, d time.Time) ([]models.ClassOccurrence, error) {
	f.lastDate = d
	return f.classes, f.err
}
func (f *fakeGym) Book(_ context.Context, classID, membershipID int64) error {
	f.bookCalls++
	f.lastClass, f.lastMember = classID, membershipID
	return f.err
}
func (f *fakeGym) Cancel(_ context.Context, classID int64) error {
	f.lastClass = classID
	return f.err
}
func (f *fakeGym) Events(context.Context) ([]models.Event, error) { return f.events, f.err }
