package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text;not null"`
	Date        time.Time `gorm:"type:date;not null;index"`
	Time        string    `gorm:"type:varchar(5);not null"`
	Capacity    int       `gorm:"not null;check:chk_events_capacity,capacity >= 1"`
	Status      string    `gorm:"not null;default:OPEN"`

	OrganizerID uint     `gorm:"not null;index"`
	Organizer   User     `gorm:"constraint:OnDelete:RESTRICT"`
	LocationID  uint     `gorm:"not null;index"`
	Location    Location `gorm:"constraint:OnDelete:RESTRICT"`

	Participations []Participation `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Participation is one row of an event roster. CreatedAt orders the roster.
type Participation struct {
	EventID uint `gorm:"primaryKey"`
	UserID  uint `gorm:"primaryKey;index"`
	User    User `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
}

func (Participation) TableName() string {
	return "event_participants"
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func withRoster(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Organizer").
		Preload("Location").
		Preload("Participations", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_participants.created_at ASC")
		}).
		Preload("Participations.User")
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return d.FindByID(ctx, event.ID)
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := withRoster(d.db.WithContext(ctx)).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// List returns events soonest first. A non-zero organizerID narrows the
// result to that organizer's events.
func (d *EventDAO) List(ctx context.Context, organizerID uint) ([]Event, error) {
	var events []Event

	query := withRoster(d.db.WithContext(ctx)).Order("date ASC, time ASC, created_at DESC")
	if organizerID != 0 {
		query = query.Where("organizer_id = ?", organizerID)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := d.db.WithContext(ctx).Model(&Event{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateLocked loads the event under a row lock, hands it to fn and writes
// back the scalar columns and the roster delta in the same transaction.
// The changes are committed even when fn returns an error, which is then
// returned alongside the reloaded event.
func (d *EventDAO) UpdateLocked(ctx context.Context, id uint, fn func(*Event) error) (Event, error) {
	var (
		event Event
		fnErr error
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return result.Error
		}

		err := tx.Preload("User").
			Where("event_id = ?", id).
			Order("created_at ASC").
			Find(&event.Participations).Error
		if err != nil {
			return err
		}

		before := make(map[uint]bool, len(event.Participations))
		for _, p := range event.Participations {
			before[p.UserID] = true
		}

		fnErr = fn(&event)

		after := make(map[uint]bool, len(event.Participations))
		for _, p := range event.Participations {
			after[p.UserID] = true
			if before[p.UserID] {
				continue
			}

			row := Participation{EventID: id, UserID: p.UserID}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return err
			}
		}

		for userID := range before {
			if after[userID] {
				continue
			}

			err := tx.Where("event_id = ? AND user_id = ?", id, userID).Delete(&Participation{}).Error
			if err != nil {
				return err
			}
		}

		err = tx.Model(&Event{ID: id}).Updates(map[string]any{
			"title":       event.Title,
			"description": event.Description,
			"date":        event.Date,
			"time":        event.Time,
			"capacity":    event.Capacity,
			"status":      event.Status,
			"location_id": event.LocationID,
		}).Error
		if err != nil {
			return err
		}

		event = Event{}
		return withRoster(tx).First(&event, id).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, fnErr
}
