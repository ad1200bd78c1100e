package dao

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, d *UserDAO, name string) User {
	t.Helper()

	user, err := d.Insert(context.Background(), User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hash",
		Role:     "PARTICIPANT",
	})
	require.NoError(t, err)

	return user
}

func seedEvent(t *testing.T, d *EventDAO, organizerID, locationID uint, capacity int) Event {
	t.Helper()

	event, err := d.Insert(context.Background(), Event{
		Title:       "Meetup",
		Description: "Monthly meetup",
		Date:        time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Time:        "19:00",
		Capacity:    capacity,
		Status:      "OPEN",
		OrganizerID: organizerID,
		LocationID:  locationID,
	})
	require.NoError(t, err)

	return event
}

func TestUserDAO_Insert_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	d := NewUserDAO(db)

	seedUser(t, d, "alice")

	_, err := d.Insert(context.Background(), User{Name: "other", Email: "alice@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestUserDAO_Defaults(t *testing.T) {
	db := setupDB(t)
	d := NewUserDAO(db)

	created, err := d.Insert(context.Background(), User{Name: "bob", Email: "bob@example.com", Password: "hash"})
	require.NoError(t, err)

	found, err := d.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PARTICIPANT", found.Role)
	assert.Equal(t, 0, found.TotalPoints)
}

func TestUserDAO_NotFound(t *testing.T) {
	db := setupDB(t)
	d := NewUserDAO(db)

	_, err := d.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = d.Update(context.Background(), User{ID: 42, Name: "x", Email: "x@example.com", Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, d.Delete(context.Background(), 42), ErrUserNotFound)
}

func TestLocationDAO_FindOrCreateByCoordinates(t *testing.T) {
	db := setupDB(t)
	d := NewLocationDAO(db)
	ctx := context.Background()

	attrs := Location{Name: "Rua X", Address: "Rua X", Source: "OSM"}
	first, err := d.FindOrCreateByCoordinates(ctx, 41.0, -8.0, attrs)
	require.NoError(t, err)

	second, err := d.FindOrCreateByCoordinates(ctx, 41.0, -8.0, Location{Name: "Elsewhere", Address: "Elsewhere", Source: "OSM"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Rua X", second.Name)

	count, err := d.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEventDAO_ReferentialRules(t *testing.T) {
	db := setupDB(t)
	users := NewUserDAO(db)
	locations := NewLocationDAO(db)
	events := NewEventDAO(db)
	ctx := context.Background()

	organizer := seedUser(t, users, "org")
	participant := seedUser(t, users, "part")
	location, err := locations.Insert(ctx, Location{Name: "Hall", Address: "Hall", Latitude: 1, Longitude: 2, Source: "MANUAL"})
	require.NoError(t, err)
	event := seedEvent(t, events, organizer.ID, location.ID, 5)

	_, err = events.UpdateLocked(ctx, event.ID, func(e *Event) error {
		e.Participations = append(e.Participations, Participation{UserID: participant.ID})
		return nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, users.Delete(ctx, organizer.ID), ErrUserHasEvents)
	assert.ErrorIs(t, locations.Delete(ctx, location.ID), ErrLocationInUse)

	require.NoError(t, users.Delete(ctx, participant.ID))
	reloaded, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Participations)

	require.NoError(t, events.Delete(ctx, event.ID))
	require.NoError(t, locations.Delete(ctx, location.ID))
	assert.ErrorIs(t, events.Delete(ctx, event.ID), ErrEventNotFound)
}

func TestEventDAO_Delete_CascadesParticipations(t *testing.T) {
	db := setupDB(t)
	users := NewUserDAO(db)
	locations := NewLocationDAO(db)
	events := NewEventDAO(db)
	ctx := context.Background()

	organizer := seedUser(t, users, "host")
	participant := seedUser(t, users, "guest")
	location, err := locations.Insert(ctx, Location{Name: "Dock", Address: "Dock", Latitude: 3, Longitude: 4, Source: "MANUAL"})
	require.NoError(t, err)
	event := seedEvent(t, events, organizer.ID, location.ID, 5)

	_, err = events.UpdateLocked(ctx, event.ID, func(e *Event) error {
		e.Participations = append(e.Participations, Participation{UserID: participant.ID})
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, event.ID))

	var rows int64
	require.NoError(t, db.Model(&Participation{}).Where("event_id = ?", event.ID).Count(&rows).Error)
	assert.Zero(t, rows)

	_, err = users.FindByID(ctx, participant.ID)
	assert.NoError(t, err)
}

func TestEventDAO_UpdateLocked_KeepsRosterOrder(t *testing.T) {
	db := setupDB(t)
	users := NewUserDAO(db)
	locations := NewLocationDAO(db)
	events := NewEventDAO(db)
	ctx := context.Background()

	organizer := seedUser(t, users, "org")
	location, err := locations.Insert(ctx, Location{Name: "Hall", Address: "Hall", Latitude: 1, Longitude: 2, Source: "MANUAL"})
	require.NoError(t, err)
	event := seedEvent(t, events, organizer.ID, location.ID, 5)

	var ids []uint
	for i := 0; i < 3; i++ {
		u := seedUser(t, users, fmt.Sprintf("user%d", i))
		ids = append(ids, u.ID)
		_, err := events.UpdateLocked(ctx, event.ID, func(e *Event) error {
			e.Participations = append(e.Participations, Participation{UserID: u.ID})
			return nil
		})
		require.NoError(t, err)
	}

	got, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, got.Participations, 3)
	for i, p := range got.Participations {
		assert.Equal(t, ids[i], p.UserID)
		assert.Equal(t, ids[i], p.User.ID)
	}
}

func TestEventDAO_UpdateLocked_CommitsOnCallbackError(t *testing.T) {
	db := setupDB(t)
	users := NewUserDAO(db)
	locations := NewLocationDAO(db)
	events := NewEventDAO(db)
	ctx := context.Background()

	organizer := seedUser(t, users, "org")
	location, err := locations.Insert(ctx, Location{Name: "Hall", Address: "Hall", Latitude: 1, Longitude: 2, Source: "MANUAL"})
	require.NoError(t, err)
	event := seedEvent(t, events, organizer.ID, location.ID, 1)

	errRejected := errors.New("rejected")
	got, err := events.UpdateLocked(ctx, event.ID, func(e *Event) error {
		e.Status = "FULL"
		return errRejected
	})
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, "FULL", got.Status)

	reloaded, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "FULL", reloaded.Status)

	_, err = events.UpdateLocked(ctx, 999, func(e *Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDAO_UpdateLocked_ConcurrentJoinsRespectCapacity(t *testing.T) {
	db := setupDB(t)
	users := NewUserDAO(db)
	locations := NewLocationDAO(db)
	events := NewEventDAO(db)
	ctx := context.Background()

	const capacity = 3
	organizer := seedUser(t, users, "org")
	location, err := locations.Insert(ctx, Location{Name: "Hall", Address: "Hall", Latitude: 1, Longitude: 2, Source: "MANUAL"})
	require.NoError(t, err)
	event := seedEvent(t, events, organizer.ID, location.ID, capacity)

	errFull := errors.New("full")
	var joiners []User
	for i := 0; i < 10; i++ {
		joiners = append(joiners, seedUser(t, users, fmt.Sprintf("joiner%d", i)))
	}

	var wg sync.WaitGroup
	for _, u := range joiners {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, _ = events.UpdateLocked(ctx, event.ID, func(e *Event) error {
				if len(e.Participations) >= e.Capacity {
					return errFull
				}
				e.Participations = append(e.Participations, Participation{UserID: userID})
				return nil
			})
		}(u.ID)
	}
	wg.Wait()

	got, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participations, capacity)
}

func TestEventDAO_List_Order(t *testing.T) {
	db := setupDB(t)
	users := NewUserDAO(db)
	locations := NewLocationDAO(db)
	events := NewEventDAO(db)
	ctx := context.Background()

	organizer := seedUser(t, users, "org")
	other := seedUser(t, users, "other")
	location, err := locations.Insert(ctx, Location{Name: "Hall", Address: "Hall", Latitude: 1, Longitude: 2, Source: "MANUAL"})
	require.NoError(t, err)

	insert := func(title string, organizerID uint, day int, at string) {
		_, err := events.Insert(ctx, Event{
			Title:       title,
			Description: "d",
			Date:        time.Date(2026, 12, day, 0, 0, 0, 0, time.UTC),
			Time:        at,
			Capacity:    2,
			Status:      "OPEN",
			OrganizerID: organizerID,
			LocationID:  location.ID,
		})
		require.NoError(t, err)
	}
	insert("later", organizer.ID, 5, "10:00")
	insert("morning", other.ID, 1, "09:00")
	insert("evening", organizer.ID, 1, "20:00")
	insert("morning-newer", organizer.ID, 1, "09:00")

	all, err := events.List(ctx, 0)
	require.NoError(t, err)
	var titles []string
	for _, e := range all {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"morning-newer", "morning", "evening", "later"}, titles)

	mine, err := events.List(ctx, organizer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, e := range mine {
		assert.Equal(t, organizer.ID, e.OrganizerID)
		assert.Equal(t, "Hall", e.Location.Name)
	}
}
