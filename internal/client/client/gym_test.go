package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yoga(id int64) models.ClassOccurrence {
	return models.ClassOccurrence{
		ClassInfo: models.ClassInfo{
			ClassID:    id,
			Name:       "Yoga",
			Date:       "2024-05-01",
			StartTime:  "10:00",
			EndTime:    "11:00",
			Instructor: "Anna",
		},
	}
}

func TestClasses_ListsWithBookedFlag(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 7)
	env.gym.SetClasses("2024-05-01", []models.ClassOccurrence{yoga(1), yoga(2)})

	ctx := context.Background()
	day := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

	require.NoError(t, env.client.BookClass(ctx, 2, 11))
	assert.Equal(t, map[int64]int64{2: 11}, env.gym.Bookings(7))

	classes, err := env.client.Classes(ctx, day)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.False(t, classes[0].Booked)
	assert.True(t, classes[1].Booked)
	assert.Equal(t, "Anna", classes[1].Instructor)

	require.NoError(t, env.client.CancelBooking(ctx, 2))
	assert.Empty(t, env.gym.Bookings(7))
}

func TestClasses_AcceptsBareArray(t *testing.T) {
	queries := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"classId":5,"class_name":"Spin","booked":true}]`))
	}))
	t.Cleanup(srv.Close)

	env := newTestEnv(t, func(o *Options) { o.BaseURL = srv.URL })
	env.put(t, "opaque", "r", 9)

	classes, err := env.client.Classes(context.Background(), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.EqualValues(t, 5, classes[0].ClassID)
	assert.True(t, classes[0].Booked)
	assert.Equal(t, "date=2024-01-02&userId=9", <-queries)
}

func TestClasses_NotLoggedIn(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.Classes(context.Background(), time.Now())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, env.gym.Hits(classesPath))
}

func TestCancelBooking_NotBooked(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 7)

	err := env.client.CancelBooking(context.Background(), 3)

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusNotFound, rf.StatusCode)
	assert.Equal(t, "Booking not found", rf.Detail)
}

func TestBookClass_AlreadyBooked(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 7)
	env.gym.SetClasses("2024-05-01", []models.ClassOccurrence{yoga(1)})

	require.NoError(t, env.client.BookClass(context.Background(), 1, 3))
	err := env.client.BookClass(context.Background(), 1, 3)

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "Class already booked", rf.Detail)
}

func TestEvents_SortedByID(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 7)
	env.gym.SetEvents([]models.Event{{ID: 3, Title: "c"}, {ID: 1, Title: "a"}, {ID: 2, Title: "b"}})

	events, err := env.client.Events(context.Background())
	require.NoError(t, err)

	ids := make([]int64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 7)
	credits := 4
	env.gym.SetProfile(7, models.Profile{
		Email:     "a@b.c",
		FirstName: "Ann",
		ActiveMemberships: []models.Membership{
			{ID: 11, Membership: "10 visits", CreditsRemaining: &credits},
		},
	})

	p, err := env.client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.FirstName)
	require.Len(t, p.ActiveMemberships, 1)
	assert.Equal(t, 4, *p.ActiveMemberships[0].CreditsRemaining)
}
