package v1

import (
	"context"
	"errors"
	"time"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

var errNotImplemented = errors.New("not implemented")

type mockAuthService struct {
	registerFunc func(ctx context.Context, user domain.User) (domain.User, error)
	loginFunc    func(ctx context.Context, email, password string) (domain.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, user)
	}
	return domain.User{}, errNotImplemented
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return domain.User{}, errNotImplemented
}

type mockRevoker struct {
	revoked map[string]time.Time
}

func (m *mockRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[tokenID] = expiresAt
	return nil
}

type mockEventService struct {
	listEventsFunc   func(ctx context.Context, callerID uint) ([]domain.Event, error)
	listMyEventsFunc func(ctx context.Context, callerID uint) ([]domain.Event, error)
	getEventFunc     func(ctx context.Context, id, callerID uint) (domain.Event, error)
	createEventFunc  func(ctx context.Context, caller domain.Identity, in service.EventInput) (domain.Event, error)
	updateEventFunc  func(ctx context.Context, caller domain.Identity, id uint, in service.EventInput) (domain.Event, error)
	deleteEventFunc  func(ctx context.Context, caller domain.Identity, id uint) error
	joinEventFunc    func(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
	leaveEventFunc   func(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
	cancelEventFunc  func(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
	finishEventFunc  func(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error)
}

func (m *mockEventService) ListEvents(ctx context.Context, callerID uint) ([]domain.Event, error) {
	if m.listEventsFunc != nil {
		return m.listEventsFunc(ctx, callerID)
	}
	return nil, errNotImplemented
}

func (m *mockEventService) ListMyEvents(ctx context.Context, callerID uint) ([]domain.Event, error) {
	if m.listMyEventsFunc != nil {
		return m.listMyEventsFunc(ctx, callerID)
	}
	return nil, errNotImplemented
}

func (m *mockEventService) GetEvent(ctx context.Context, id, callerID uint) (domain.Event, error) {
	if m.getEventFunc != nil {
		return m.getEventFunc(ctx, id, callerID)
	}
	return domain.Event{}, errNotImplemented
}

func (m *mockEventService) CreateEvent(ctx context.Context, caller domain.Identity, in service.EventInput) (domain.Event, error) {
	if m.createEventFunc != nil {
		return m.createEventFunc(ctx, caller, in)
	}
	return domain.Event{}, errNotImplemented
}

func (m *mockEventService) UpdateEvent(ctx context.Context, caller domain.Identity, id uint, in service.EventInput) (domain.Event, error) {
	if m.updateEventFunc != nil {
		return m.updateEventFunc(ctx, caller, id, in)
	}
	return domain.Event{}, errNotImplemented
}

func (m *mockEventService) DeleteEvent(ctx context.Context, caller domain.Identity, id uint) error {
	if m.deleteEventFunc != nil {
		return m.deleteEventFunc(ctx, caller, id)
	}
	return errNotImplemented
}

func (m *mockEventService) JoinEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	if m.joinEventFunc != nil {
		return m.joinEventFunc(ctx, caller, id)
	}
	return domain.Event{}, errNotImplemented
}

func (m *mockEventService) LeaveEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	if m.leaveEventFunc != nil {
		return m.leaveEventFunc(ctx, caller, id)
	}
	return domain.Event{}, errNotImplemented
}

func (m *mockEventService) CancelEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	if m.cancelEventFunc != nil {
		return m.cancelEventFunc(ctx, caller, id)
	}
	return domain.Event{}, errNotImplemented
}

func (m *mockEventService) FinishEvent(ctx context.Context, caller domain.Identity, id uint) (domain.Event, error) {
	if m.finishEventFunc != nil {
		return m.finishEventFunc(ctx, caller, id)
	}
	return domain.Event{}, errNotImplemented
}

type mockDashboardService struct {
	stats service.DashboardStats
	err   error
}

func (m *mockDashboardService) Dashboard(context.Context) (service.DashboardStats, error) {
	return m.stats, m.err
}

type mockUserService struct {
	listUsersFunc  func(ctx context.Context) ([]domain.User, error)
	getUserFunc    func(ctx context.Context, id uint) (domain.User, error)
	updateUserFunc func(ctx context.Context, id uint, name, email string, role domain.Role) (domain.User, error)
	deleteUserFunc func(ctx context.Context, actor domain.Identity, id uint) error
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockUserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return domain.User{}, errNotImplemented
}

func (m *mockUserService) UpdateUser(ctx context.Context, id uint, name, email string, role domain.Role) (domain.User, error) {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, id, name, email, role)
	}
	return domain.User{}, errNotImplemented
}

func (m *mockUserService) DeleteUser(ctx context.Context, actor domain.Identity, id uint) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, actor, id)
	}
	return errNotImplemented
}

type mockLocationService struct {
	listLocationsFunc  func(ctx context.Context) ([]domain.Location, error)
	getLocationFunc    func(ctx context.Context, id uint) (domain.Location, error)
	createLocationFunc func(ctx context.Context, location domain.Location) (domain.Location, error)
	updateLocationFunc func(ctx context.Context, location domain.Location) (domain.Location, error)
	deleteLocationFunc func(ctx context.Context, id uint) error
}

func (m *mockLocationService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	if m.listLocationsFunc != nil {
		return m.listLocationsFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockLocationService) GetLocation(ctx context.Context, id uint) (domain.Location, error) {
	if m.getLocationFunc != nil {
		return m.getLocationFunc(ctx, id)
	}
	return domain.Location{}, errNotImplemented
}

func (m *mockLocationService) CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	if m.createLocationFunc != nil {
		return m.createLocationFunc(ctx, location)
	}
	return domain.Location{}, errNotImplemented
}

func (m *mockLocationService) UpdateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	if m.updateLocationFunc != nil {
		return m.updateLocationFunc(ctx, location)
	}
	return domain.Location{}, errNotImplemented
}

func (m *mockLocationService) DeleteLocation(ctx context.Context, id uint) error {
	if m.deleteLocationFunc != nil {
		return m.deleteLocationFunc(ctx, id)
	}
	return errNotImplemented
}
