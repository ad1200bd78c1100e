package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/repository"
)

var (
	ErrEventNotFound      = repository.ErrEventNotFound
	ErrForbidden          = errors.New("only the organizer can manage this event")
	ErrEventNotOpen       = domain.ErrEventNotOpen
	ErrEventFull          = domain.ErrEventFull
	ErrAlreadyParticipant = domain.ErrAlreadyParticipant
	ErrInvalidTransition  = domain.ErrInvalidTransition
)

const (
	ActionJoin   = "join"
	ActionLeave  = "leave"
	ActionUpdate = "update"
	ActionCancel = "cancel"
	ActionFinish = "finish"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error)
	Delete(ctx context.Context, id uint) error
	Mutate(ctx context.Context, id uint, fn func(*domain.Event) error) (domain.Event, error)
}

type LocationResolver interface {
	Resolve(ctx context.Context, label string, lat, lon float64) (domain.Location, error)
}

// Publisher receives the state of an event after every roster or status change.
type Publisher interface {
	Publish(change domain.StatusChange)
}

// ActionRecorder observes the outcome of event mutations.
type ActionRecorder interface {
	ObserveEventAction(action string, err error)
}

type EventInput struct {
	Title         string
	Description   string
	Date          time.Time
	Time          string
	Capacity      int
	LocationLabel string
	Latitude      float64
	Longitude     float64
}

type EventService struct {
	repo      EventRepository
	locations LocationResolver
	publisher Publisher
	recorder  ActionRecorder
}

func NewEventService(repo EventRepository, locations LocationResolver, publisher Publisher, recorder ActionRecorder) *EventService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &EventService{
		repo:      repo,
		locations: locations,
		publisher: publisher,
		recorder:  recorder,
	}
}

// ListEvents returns every event, soonest first. callerID may be zero for
// anonymous visitors.
func (s *EventService) ListEvents(ctx context.Context, callerID uint) ([]domain.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	for i := range events {
		events[i].Annotate(callerID)
	}

	return events, nil
}

func (s *EventService) ListMyEvents(ctx context.Context, callerID uint) ([]domain.Event, error) {
	events, err := s.repo.ListByOrganizer(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByOrganizer -> %w", err)
	}

	for i := range events {
		events[i].Annotate(callerID)
	}

	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, id, callerID uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	event.Annotate(callerID)

	return event, nil
}

func (s *EventService) CreateEvent(ctx context.Context, caller domain.Identity, in EventInput) (domain.Event, error) {
	location, err := s.locations.Resolve(ctx, in.LocationLabel, in.Latitude, in.Longitude)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.locations.Resolve -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Time:        in.Time,
		Capacity:    in.Capacity,
		Status:      domain.StatusOpen,
		OrganizerID: caller.ID,
		LocationID:  location.ID,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}
	created.Annotate(caller.ID)

	return created, nil
}

// UpdateEvent checks ownership before resolving the location so a rejected
// edit never creates one. The organizer of an event does not change.
func (s *EventService) UpdateEvent(ctx context.Context, caller domain.Identity, id uint, in EventInput) (domain.Event, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !current.IsOrganizedBy(caller.ID) {
		s.recorder.ObserveEventAction(ActionUpdate, ErrForbidden)
		return domain.Event{}, ErrForbidden
	}

	location, err := s.locations.Resolve(ctx, in.LocationLabel, in.Latitude, in.Longitude)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.locations.Resolve -> %w", err)
	}

	return s.mutate(ctx, caller, id, ActionUpdate, true, func(e *domain.Event) error {
		e.Title = strings.TrimSpace(in.Title)
		e.Description = strings.TrimSpace(in.Description)
		e.Date = in.Date
		e.Time = in.Time
		e.LocationID = location.ID
		e.Resize(in.Capacity)

		return nil
	})
}

func (s *EventService) DeleteEvent(ctx context.Context, caller domain.Identity, id uint) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !event.IsOrganizedBy(caller.ID) {
		return ErrForbidden
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) JoinEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	return s.mutate(ctx, caller, id, ActionJoin, false, func(e *domain.Event) error {
		return e.Join(domain.UserSummary{ID: caller.ID, Name: caller.Name, Email: caller.Email})
	})
}

func (s *EventService) LeaveEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	return s.mutate(ctx, caller, id, ActionLeave, false, func(e *domain.Event) error {
		e.Leave(caller.ID)
		return nil
	})
}

func (s *EventService) CancelEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	return s.mutate(ctx, caller, id, ActionCancel, true, func(e *domain.Event) error {
		return e.Cancel()
	})
}

func (s *EventService) FinishEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	return s.mutate(ctx, caller, id, ActionFinish, true, func(e *domain.Event) error {
		return e.Finish()
	})
}

// mutate runs fn under the event row lock. Domain rejections are returned
// as is so callers can match them; the state stored alongside them is still
// published.
func (s *EventService) mutate(ctx context.Context, caller domain.Identity, id uint, action string, ownerOnly bool, fn func(*domain.Event) error) (domain.Event, error) {
	event, err := s.repo.Mutate(ctx, id, func(e *domain.Event) error {
		if ownerOnly && !e.IsOrganizedBy(caller.ID) {
			return ErrForbidden
		}

		return fn(e)
	})
	s.recorder.ObserveEventAction(action, err)

	if event.ID != 0 {
		s.publisher.Publish(event.Snapshot())
		event.Annotate(caller.ID)
	}

	if err != nil {
		if isRejection(err) {
			return event, err
		}

		return domain.Event{}, fmt.Errorf("s.repo.Mutate -> %w", err)
	}

	return event, nil
}

func isRejection(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrEventNotOpen) ||
		errors.Is(err, ErrEventFull) ||
		errors.Is(err, ErrAlreadyParticipant) ||
		errors.Is(err, ErrInvalidTransition)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.StatusChange) {}

type nopRecorder struct{}

func (nopRecorder) ObserveEventAction(string, error) {}
