package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"gorm.io/gorm"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationInUse    = errors.New("location is used by events")
)

type Location struct {
	ID uint `gorm:"primaryKey"`

	Name    string `gorm:"not null"`
	Address string `gorm:"not null;index"`
	City    string

	Latitude  float64 `gorm:"not null;index:idx_locations_coordinates,priority:1"`
	Longitude float64 `gorm:"not null;index:idx_locations_coordinates,priority:2"`
	Source    string  `gorm:"not null;default:OSM"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type LocationDAO struct {
	db *gorm.DB
}

func NewLocationDAO(db *gorm.DB) *LocationDAO {
	return &LocationDAO{
		db: db,
	}
}

// FindOrCreateByCoordinates returns the first location stored at exactly
// (lat, lon), inserting attrs when there is none.
func (d *LocationDAO) FindOrCreateByCoordinates(ctx context.Context, lat, lon float64, attrs Location) (Location, error) {
	var location Location

	result := d.db.WithContext(ctx).
		Where("latitude = ? AND longitude = ?", lat, lon).
		Order("id ASC").
		Attrs(Location{
			Name:      attrs.Name,
			Address:   attrs.Address,
			City:      attrs.City,
			Latitude:  lat,
			Longitude: lon,
			Source:    attrs.Source,
		}).
		FirstOrCreate(&location)
	if result.Error != nil {
		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) Insert(ctx context.Context, location Location) (Location, error) {
	if err := d.db.WithContext(ctx).Create(&location).Error; err != nil {
		return Location{}, err
	}

	return location, nil
}

func (d *LocationDAO) FindByID(ctx context.Context, id uint) (Location, error) {
	var location Location

	result := d.db.WithContext(ctx).First(&location, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Location{}, ErrLocationNotFound
		}

		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) FindByAddress(ctx context.Context, address string) (Location, error) {
	var location Location

	result := d.db.WithContext(ctx).First(&location, "address = ?", address)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Location{}, ErrLocationNotFound
		}

		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) List(ctx context.Context) ([]Location, error) {
	var locations []Location

	if err := d.db.WithContext(ctx).Order("created_at DESC").Find(&locations).Error; err != nil {
		return nil, err
	}

	return locations, nil
}

func (d *LocationDAO) Update(ctx context.Context, location Location) (Location, error) {
	result := d.db.WithContext(ctx).Model(&Location{ID: location.ID}).Updates(map[string]any{
		"name":      location.Name,
		"address":   location.Address,
		"city":      location.City,
		"latitude":  location.Latitude,
		"longitude": location.Longitude,
		"source":    location.Source,
	})
	if result.Error != nil {
		return Location{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Location{}, ErrLocationNotFound
	}

	return d.FindByID(ctx, location.ID)
}

func (d *LocationDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Location{}, id)
	if result.Error != nil {
		if _, ok := pgError(result.Error, pgerrcode.ForeignKeyViolation); ok {
			return ErrLocationInUse
		}

		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}

func (d *LocationDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := d.db.WithContext(ctx).Model(&Location{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
