package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/models"
)

// Client is the gym backend API as seen by the services layer.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	RefreshAccessToken(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close() error

	Profile(ctx context.Context) (*models.Profile, error)
	Classes(ctx context.Context, date time.Time) ([]models.ClassOccurrence, error)
	BookClass(ctx context.Context, classID, membershipID int64) error
	CancelBooking(ctx context.Context, classID int64) error
	Events(ctx context.Context) ([]models.Event, error)
}

var _ Client = (*HTTPClient)(nil)
