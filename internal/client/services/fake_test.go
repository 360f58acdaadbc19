package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/client"
	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

// fakeClient implements client.Client for unit tests of the services.
type fakeClient struct {
	mu sync.Mutex

	// behaviour / results
	LoginRet   *models.Session
	LoginErr   error
	LogoutErr  error
	RefreshRet string
	RefreshErr error
	PingErr    error
	CloseErr   error

	ProfileRet *models.Profile
	ProfileErr error
	ClassesRet []models.ClassOccurrence
	ClassesErr error
	BookErr    error
	CancelErr  error
	EventsRet  []models.Event
	EventsErr  error

	// captured arguments
	LoginCalls     int
	LastEmail      string
	LastPassword   string
	RefreshCalls   int
	LogoutCalls    int
	LastDate       time.Time
	LastClassID    int64
	LastMembership int64
	BookCalls      int
	CancelCalls    int
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) RefreshAccessToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshCalls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Profile(ctx context.Context) (*models.Profile, error) {
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) Classes(ctx context.Context, date time.Time) ([]models.ClassOccurrence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastDate = date
	return f.ClassesRet, f.ClassesErr
}

func (f *fakeClient) BookClass(ctx context.Context, classID, membershipID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BookCalls++
	f.LastClassID, f.LastMembership = classID, membershipID
	return f.BookErr
}

func (f *fakeClient) CancelBooking(ctx context.Context, classID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CancelCalls++
	f.LastClassID = classID
	return f.CancelErr
}

func (f *fakeClient) Events(ctx context.Context) ([]models.Event, error) {
	return f.EventsRet, f.EventsErr
}

// ---- helpers ----

// jwtExpiringAt returns a signed token whose exp claim is exp.
func jwtExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}
