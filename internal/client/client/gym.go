package client

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/models"
)

const (
	profilePath       = "/user/auth/"
	classesPath       = "/user/classes/"
	bookClassPath     = "/user/book-class/"
	cancelBookingPath = "/user/cancel-booking/%d/"
	eventsPath        = "/user/events/"

	// DateLayout is the date format of the classes endpoint.
	DateLayout = "2006-01-02"
)

// Profile returns the user's profile with bookings and active memberships.
func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.Do(ctx, http.MethodPost, profilePath, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Classes lists the classes scheduled on date, flagging the ones the user
// has booked.
func (c *HTTPClient) Classes(ctx context.Context, date time.Time) ([]models.ClassOccurrence, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("date", date.Format(DateLayout))
	q.Set("userId", strconv.FormatInt(userID, 10))

	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, classesPath, q, nil, &raw); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var classes []models.ClassOccurrence
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &classes); err != nil {
			return nil, fmt.Errorf("decode classes: %w", err)
		}
		return classes, nil
	}

	var wrapped struct {
		Classes []models.ClassOccurrence `json:"classes"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	return wrapped.Classes, nil
}

// BookClass books classID against membershipID.
func (c *HTTPClient) BookClass(ctx context.Context, classID, membershipID int64) error {
	userID, err := c.UserID(ctx)
	if err != nil {
		return err
	}

	req := models.BookingRequest{UserID: userID, ClassID: classID, MembershipID: membershipID}
	return c.Do(ctx, http.MethodPost, bookClassPath, nil, req, nil)
}

// CancelBooking cancels the user's booking of classID.
func (c *HTTPClient) CancelBooking(ctx context.Context, classID int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf(cancelBookingPath, classID), nil, nil, nil)
}

// Events returns the gym events ordered by id.
func (c *HTTPClient) Events(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.Do(ctx, http.MethodGet, eventsPath, nil, nil, &events); err != nil {
		return nil, err
	}
	slices.SortFunc(events, func(a, b models.Event) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return events, nil
}
