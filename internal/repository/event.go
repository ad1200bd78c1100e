package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/repository/dao"
)

var (
	ErrEventNotFound = dao.ErrEventNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	List(ctx context.Context, organizerID uint) ([]dao.Event, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	UpdateLocked(ctx context.Context, id uint, fn func(*dao.Event) error) (dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		Time:        event.Time,
		Capacity:    event.Capacity,
		Status:      string(event.Status),
		OrganizerID: event.OrganizerID,
		LocationID:  event.LocationID,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	return r.list(ctx, 0)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	return r.list(ctx, organizerID)
}

func (r *EventRepository) list(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	found, err := r.dao.List(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventDaoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

// Mutate applies fn to the event while its row is locked. Whatever fn leaves
// on the event is persisted, including when fn returns an error; that error
// is returned unwrapped together with the stored event.
func (r *EventRepository) Mutate(ctx context.Context, id uint, fn func(*domain.Event) error) (domain.Event, error) {
	var fnErr error

	stored, err := r.dao.UpdateLocked(ctx, id, func(row *dao.Event) error {
		event := eventDaoToDomain(*row)
		fnErr = fn(&event)
		applyEventToDao(event, row)

		return fnErr
	})
	if err != nil && err != fnErr {
		return domain.Event{}, fmt.Errorf("r.dao.UpdateLocked -> %w", err)
	}

	return eventDaoToDomain(stored), fnErr
}

func applyEventToDao(e domain.Event, row *dao.Event) {
	row.Title = e.Title
	row.Description = e.Description
	row.Date = e.Date
	row.Time = e.Time
	row.Capacity = e.Capacity
	row.Status = string(e.Status)
	row.LocationID = e.LocationID

	participations := make([]dao.Participation, 0, len(e.Participants))
	for _, p := range e.Participants {
		participations = append(participations, dao.Participation{EventID: row.ID, UserID: p.ID})
	}
	row.Participations = participations
}

func eventDaoToDomain(e dao.Event) domain.Event {
	participants := make([]domain.UserSummary, 0, len(e.Participations))
	for _, p := range e.Participations {
		participants = append(participants, domain.UserSummary{
			ID:    p.UserID,
			Name:  p.User.Name,
			Email: p.User.Email,
		})
	}

	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Capacity:    e.Capacity,
		Status:      domain.EventStatus(e.Status),
		OrganizerID: e.OrganizerID,
		Organizer: domain.UserSummary{
			ID:    e.Organizer.ID,
			Name:  e.Organizer.Name,
			Email: e.Organizer.Email,
		},
		LocationID:   e.LocationID,
		Location:     locationDaoToDomain(e.Location),
		Participants: participants,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
