package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/client"
	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/dmitrijs2005/gymclient/internal/common"
)

// GymService exposes the gym features available to a logged in user.
// Every call goes through the authenticated request wrapper, so any of them
// may return client.ErrSessionExpired.
type GymService interface {
	Profile(ctx context.Context) (*models.Profile, error)
	Memberships(ctx context.Context) ([]models.Membership, error)
	Classes(ctx context.Context, date time.Time) ([]models.ClassOccurrence, error)
	Book(ctx context.Context, classID, membershipID int64) error
	Cancel(ctx context.Context, classID int64) error
	Events(ctx context.Context) ([]models.Event, error)
}

type gymService struct {
	client client.Client
}

func NewGymService(c client.Client) GymService {
	return &gymService{client: c}
}

func (g *gymService) Profile(ctx context.Context) (*models.Profile, error) {
	return g.client.Profile(ctx)
}

// Memberships returns the active memberships listed on the profile.
func (g *gymService) Memberships(ctx context.Context) ([]models.Membership, error) {
	p, err := g.client.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return p.ActiveMemberships, nil
}

func (g *gymService) Classes(ctx context.Context, date time.Time) ([]models.ClassOccurrence, error) {
	return g.client.Classes(ctx, date)
}

// Book validates the ids and books the class.
func (g *gymService) Book(ctx context.Context, classID, membershipID int64) error {
	if classID <= 0 || membershipID <= 0 {
		return common.ErrInvalidID
	}
	return g.client.BookClass(ctx, classID, membershipID)
}

func (g *gymService) Cancel(ctx context.Context, classID int64) error {
	if classID <= 0 {
		return common.ErrInvalidID
	}
	return g.client.CancelBooking(ctx, classID)
}

func (g *gymService) Events(ctx context.Context) ([]models.Event, error) {
	return g.client.Events(ctx)
}

// ParseDate parses a YYYY-MM-DD date in now's location. An empty string
// means now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(client.DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, s)
	}
	return d, nil
}
