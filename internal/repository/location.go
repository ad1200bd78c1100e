package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/repository/dao"
)

var (
	ErrLocationNotFound = dao.ErrLocationNotFound
	ErrLocationInUse    = dao.ErrLocationInUse
)

type LocationDAO interface {
	FindOrCreateByCoordinates(ctx context.Context, lat, lon float64, attrs dao.Location) (dao.Location, error)
	Insert(ctx context.Context, location dao.Location) (dao.Location, error)
	FindByID(ctx context.Context, id uint) (dao.Location, error)
	FindByAddress(ctx context.Context, address string) (dao.Location, error)
	List(ctx context.Context) ([]dao.Location, error)
	Update(ctx context.Context, location dao.Location) (dao.Location, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type LocationRepository struct {
	dao LocationDAO
}

func NewLocationRepository(dao LocationDAO) *LocationRepository {
	return &LocationRepository{
		dao: dao,
	}
}

func (r *LocationRepository) FindOrCreateByCoordinates(ctx context.Context, location domain.Location) (domain.Location, error) {
	found, err := r.dao.FindOrCreateByCoordinates(ctx, location.Latitude, location.Longitude, locationDomainToDao(location))
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.FindOrCreateByCoordinates -> %w", err)
	}

	return locationDaoToDomain(found), nil
}

func (r *LocationRepository) Create(ctx context.Context, location domain.Location) (domain.Location, error) {
	created, err := r.dao.Insert(ctx, locationDomainToDao(location))
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return locationDaoToDomain(created), nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id uint) (domain.Location, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return locationDaoToDomain(found), nil
}

func (r *LocationRepository) FindByAddress(ctx context.Context, address string) (domain.Location, error) {
	found, err := r.dao.FindByAddress(ctx, address)
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.FindByAddress -> %w", err)
	}

	return locationDaoToDomain(found), nil
}

func (r *LocationRepository) List(ctx context.Context) ([]domain.Location, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	locations := make([]domain.Location, 0, len(found))
	for _, l := range found {
		locations = append(locations, locationDaoToDomain(l))
	}

	return locations, nil
}

func (r *LocationRepository) Update(ctx context.Context, location domain.Location) (domain.Location, error) {
	updated, err := r.dao.Update(ctx, locationDomainToDao(location))
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return locationDaoToDomain(updated), nil
}

func (r *LocationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *LocationRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func locationDomainToDao(l domain.Location) dao.Location {
	return dao.Location{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		City:      l.City,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Source:    string(l.Source),
	}
}

func locationDaoToDomain(l dao.Location) domain.Location {
	return domain.Location{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		City:      l.City,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Source:    domain.LocationSource(l.Source),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
