package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/repository"
)

var (
	ErrLocationNotFound      = repository.ErrLocationNotFound
	ErrLocationInUse         = repository.ErrLocationInUse
	ErrLocationAddressExists = errors.New("a location with this address already exists")
)

type LocationRepository interface {
	FindOrCreateByCoordinates(ctx context.Context, location domain.Location) (domain.Location, error)
	Create(ctx context.Context, location domain.Location) (domain.Location, error)
	FindByID(ctx context.Context, id uint) (domain.Location, error)
	FindByAddress(ctx context.Context, address string) (domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Update(ctx context.Context, location domain.Location) (domain.Location, error)
	Delete(ctx context.Context, id uint) error
}

type LocationService struct {
	repo LocationRepository
}

func NewLocationService(repo LocationRepository) *LocationService {
	return &LocationService{
		repo: repo,
	}
}

// Resolve returns the location stored at exactly (lat, lon) or creates one
// named after label. Coordinates are compared for equality, without any
// tolerance.
func (s *LocationService) Resolve(ctx context.Context, label string, lat, lon float64) (domain.Location, error) {
	label = strings.TrimSpace(label)

	location, err := s.repo.FindOrCreateByCoordinates(ctx, domain.Location{
		Name:      label,
		Address:   label,
		Latitude:  lat,
		Longitude: lon,
		Source:    domain.SourceOSM,
	})
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.FindOrCreateByCoordinates -> %w", err)
	}

	return location, nil
}

func (s *LocationService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return locations, nil
}

func (s *LocationService) GetLocation(ctx context.Context, id uint) (domain.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return location, nil
}

// CreateLocation stores a location entered by an administrator. Its name is
// the address, which must not be taken yet.
func (s *LocationService) CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	location = normalizeLocation(location)

	_, err := s.repo.FindByAddress(ctx, location.Address)
	if err == nil {
		return domain.Location{}, ErrLocationAddressExists
	}
	if !errors.Is(err, repository.ErrLocationNotFound) {
		return domain.Location{}, fmt.Errorf("s.repo.FindByAddress -> %w", err)
	}

	created, err := s.repo.Create(ctx, location)
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, location domain.Location) (domain.Location, error) {
	updated, err := s.repo.Update(ctx, normalizeLocation(location))
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *LocationService) DeleteLocation(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func normalizeLocation(l domain.Location) domain.Location {
	l.Address = strings.TrimSpace(l.Address)
	l.City = strings.TrimSpace(l.City)
	l.Name = l.Address
	if l.Source == "" {
		l.Source = domain.SourceManual
	}

	return l
}
