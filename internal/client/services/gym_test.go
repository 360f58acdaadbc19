package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/client"
	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/dmitrijs2005/gymclient/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGym_BookAndCancel_Validation(t *testing.T) {
	fc := &fakeClient{}
	svc := NewGymService(fc)
	ctx := context.Background()

	require.ErrorIs(t, svc.Book(ctx, 0, 1), common.ErrInvalidID)
	require.ErrorIs(t, svc.Book(ctx, 1, -1), common.ErrInvalidID)
	require.ErrorIs(t, svc.Cancel(ctx, 0), common.ErrInvalidID)
	assert.Zero(t, fc.BookCalls)
	assert.Zero(t, fc.CancelCalls)

	require.NoError(t, svc.Book(ctx, 5, 11))
	assert.EqualValues(t, 5, fc.LastClassID)
	assert.EqualValues(t, 11, fc.LastMembership)

	require.NoError(t, svc.Cancel(ctx, 5))
	assert.Equal(t, 1, fc.CancelCalls)
}

func TestGym_Memberships(t *testing.T) {
	credits := 2
	fc := &fakeClient{ProfileRet: &models.Profile{
		ActiveMemberships: []models.Membership{{ID: 1, Membership: "Monthly"}, {ID: 2, CreditsRemaining: &credits}},
	}}

	ms, err := NewGymService(fc).Memberships(context.Background())
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.EqualValues(t, 2, ms[1].ID)

	fc.ProfileErr = client.ErrSessionExpired
	_, err = NewGymService(fc).Memberships(context.Background())
	require.ErrorIs(t, err, client.ErrSessionExpired)
}

func TestGym_ClassesPassesDate(t *testing.T) {
	fc := &fakeClient{ClassesRet: []models.ClassOccurrence{{Booked: true}}}
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	got, err := NewGymService(fc).Classes(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, day, fc.LastDate)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 5, 1, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", now, false},
		{"2024-06-30", time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), false},
		{"30.06.2024", time.Time{}, true},
		{"2024-13-01", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in, now)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}
