package domain

import (
	"errors"
	"time"
)

type EventStatus string

const (
	StatusOpen      EventStatus = "OPEN"
	StatusFull      EventStatus = "FULL"
	StatusCancelled EventStatus = "CANCELLED"
	StatusFinished  EventStatus = "FINISHED"
)

func (s EventStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusFinished
}

const DateLayout = "2006-01-02"

var (
	ErrEventNotOpen       = errors.New("this event is not open for registration")
	ErrEventFull          = errors.New("this event is already full")
	ErrAlreadyParticipant = errors.New("you are already registered for this event")
	ErrInvalidTransition  = errors.New("this event is already closed")
)

type Event struct {
	ID           uint          `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         time.Time     `json:"date"`
	Time         string        `json:"time"`
	Capacity     int           `json:"capacity"`
	Status       EventStatus   `json:"status"`
	OrganizerID  uint          `json:"organizer_id"`
	Organizer    UserSummary   `json:"organizer"`
	LocationID   uint          `json:"location_id"`
	Location     Location      `json:"location"`
	Participants []UserSummary `json:"participants"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	IsParticipant bool `json:"is_participant"`
	IsOwner       bool `json:"is_owner"`
}

func (e *Event) HasParticipant(userID uint) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}

	return false
}

func (e *Event) IsOrganizedBy(userID uint) bool {
	return e.OrganizerID != 0 && e.OrganizerID == userID
}

func (e *Event) SpotsLeft() int {
	left := e.Capacity - len(e.Participants)
	if left < 0 {
		return 0
	}

	return left
}

// Join appends user to the roster. A roster that is already at capacity
// flips the event to FULL and the join is rejected, so callers must persist
// the status even when an error is returned.
func (e *Event) Join(user UserSummary) error {
	if e.Status != StatusOpen {
		return ErrEventNotOpen
	}

	if e.HasParticipant(user.ID) {
		return ErrAlreadyParticipant
	}

	if len(e.Participants) >= e.Capacity {
		e.Status = StatusFull
		return ErrEventFull
	}

	e.Participants = append(e.Participants, user)
	if len(e.Participants) >= e.Capacity {
		e.Status = StatusFull
	}

	return nil
}

// Leave removes userID from the roster if present. A FULL event reopens
// whether or not the user was on it.
func (e *Event) Leave(userID uint) {
	kept := e.Participants[:0]
	for _, p := range e.Participants {
		if p.ID != userID {
			kept = append(kept, p)
		}
	}
	e.Participants = kept

	if e.Status == StatusFull {
		e.Status = StatusOpen
	}
}

func (e *Event) Cancel() error {
	return e.close(StatusCancelled)
}

func (e *Event) Finish() error {
	return e.close(StatusFinished)
}

func (e *Event) close(to EventStatus) error {
	if e.Status.Terminal() {
		return ErrInvalidTransition
	}
	e.Status = to

	return nil
}

// Resize applies a new capacity and recomputes OPEN/FULL for events that are
// still taking registrations.
func (e *Event) Resize(capacity int) {
	e.Capacity = capacity
	if e.Status.Terminal() {
		return
	}

	if len(e.Participants) >= e.Capacity {
		e.Status = StatusFull
	} else {
		e.Status = StatusOpen
	}
}

// Annotate sets the caller-relative flags. A zero callerID clears them.
func (e *Event) Annotate(callerID uint) {
	if callerID == 0 {
		e.IsParticipant = false
		e.IsOwner = false
		return
	}
	e.IsParticipant = e.HasParticipant(callerID)
	e.IsOwner = e.IsOrganizedBy(callerID)
}

func (e *Event) Snapshot() StatusChange {
	return StatusChange{
		EventID:          e.ID,
		Status:           e.Status,
		ParticipantCount: len(e.Participants),
	}
}

// StatusChange is pushed to live subscribers of an event.
type StatusChange struct {
	EventID          uint        `json:"event_id"`
	Status           EventStatus `json:"status"`
	ParticipantCount int         `json:"participant_count"`
}
