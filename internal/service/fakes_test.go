package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/repository"
)

// memoryEventRepo keeps events in a map and serializes Mutate with a mutex,
// mirroring the row lock of the real repository.
type memoryEventRepo struct {
	mu     sync.Mutex
	nextID uint
	events map[uint]domain.Event
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: make(map[uint]domain.Event)}
}

func (r *memoryEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	event.ID = r.nextID
	r.events[event.ID] = event

	return event, nil
}

func (r *memoryEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return clone(event), nil
}

func (r *memoryEventRepo) List(_ context.Context) ([]domain.Event, error) {
	return r.filter(0), nil
}

func (r *memoryEventRepo) ListByOrganizer(_ context.Context, organizerID uint) ([]domain.Event, error) {
	return r.filter(organizerID), nil
}

func (r *memoryEventRepo) filter(organizerID uint) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []domain.Event
	for _, e := range r.events {
		if organizerID == 0 || e.OrganizerID == organizerID {
			events = append(events, clone(e))
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	return events
}

func (r *memoryEventRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(r.events, id)

	return nil
}

func (r *memoryEventRepo) Mutate(_ context.Context, id uint, fn func(*domain.Event) error) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	event := clone(stored)
	err := fn(&event)
	r.events[id] = clone(event)

	return event, err
}

func clone(e domain.Event) domain.Event {
	e.Participants = append([]domain.UserSummary(nil), e.Participants...)
	return e
}

// memoryLocationRepo is an in-memory LocationRepository.
type memoryLocationRepo struct {
	nextID    uint
	locations []domain.Location
}

func (r *memoryLocationRepo) FindOrCreateByCoordinates(_ context.Context, location domain.Location) (domain.Location, error) {
	for _, l := range r.locations {
		if l.Latitude == location.Latitude && l.Longitude == location.Longitude {
			return l, nil
		}
	}

	return r.Create(context.Background(), location)
}

func (r *memoryLocationRepo) Create(_ context.Context, location domain.Location) (domain.Location, error) {
	r.nextID++
	location.ID = r.nextID
	r.locations = append(r.locations, location)

	return location, nil
}

func (r *memoryLocationRepo) FindByID(_ context.Context, id uint) (domain.Location, error) {
	for _, l := range r.locations {
		if l.ID == id {
			return l, nil
		}
	}

	return domain.Location{}, repository.ErrLocationNotFound
}

func (r *memoryLocationRepo) FindByAddress(_ context.Context, address string) (domain.Location, error) {
	for _, l := range r.locations {
		if l.Address == address {
			return l, nil
		}
	}

	return domain.Location{}, repository.ErrLocationNotFound
}

func (r *memoryLocationRepo) List(_ context.Context) ([]domain.Location, error) {
	return r.locations, nil
}

func (r *memoryLocationRepo) Update(_ context.Context, location domain.Location) (domain.Location, error) {
	for i, l := range r.locations {
		if l.ID == location.ID {
			r.locations[i] = location
			return location, nil
		}
	}

	return domain.Location{}, repository.ErrLocationNotFound
}

func (r *memoryLocationRepo) Delete(_ context.Context, id uint) error {
	for i, l := range r.locations {
		if l.ID == id {
			r.locations = append(r.locations[:i], r.locations[i+1:]...)
			return nil
		}
	}

	return repository.ErrLocationNotFound
}

type recordingPublisher struct {
	changes []domain.StatusChange
}

func (p *recordingPublisher) Publish(change domain.StatusChange) {
	p.changes = append(p.changes, change)
}

// mockUserRepository serves both the auth and the admin user service.
type mockUserRepository struct {
	createFunc      func(ctx context.Context, user domain.User) (domain.User, error)
	findByEmailFunc func(ctx context.Context, email string) (domain.User, error)
	findByIDFunc    func(ctx context.Context, id uint) (domain.User, error)
	listFunc        func(ctx context.Context) ([]domain.User, error)
	updateFunc      func(ctx context.Context, user domain.User) (domain.User, error)
	deleteFunc      func(ctx context.Context, id uint) error
}

func (m *mockUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return domain.User{}, errors.New("not implemented")
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, errors.New("not implemented")
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return domain.User{}, errors.New("not implemented")
}

func (m *mockUserRepository) Delete(ctx context.Context, id uint) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

type staticCounter int64

func (c staticCounter) Count(context.Context) (int64, error) {
	return int64(c), nil
}
