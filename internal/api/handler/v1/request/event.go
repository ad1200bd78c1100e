package request

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

var timeOfDayExp = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var errBlank = errors.New("cannot be blank")

// notBlank rejects strings made only of whitespace, which Required lets through.
var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errBlank
	}

	return nil
})

type EventRequest struct {
	Title       string     `form:"title" json:"title"`
	Description string     `form:"description" json:"description"`
	Date        string     `form:"date" json:"date"`
	Time        string     `form:"time" json:"time"`
	Location    string     `form:"location" json:"location"`
	Capacity    int        `form:"capacity" json:"capacity"`
	LocationLat Coordinate `form:"locationLat" json:"locationLat" swaggertype:"number"`
	LocationLon Coordinate `form:"locationLon" json:"locationLon" swaggertype:"number"`
}

func (req *EventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, notBlank, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required, notBlank),
		validation.Field(&req.Date, validation.Required, validation.Date(domain.DateLayout)),
		validation.Field(&req.Time, validation.Required, validation.Match(timeOfDayExp).Error("must be a time in HH:MM format")),
		validation.Field(&req.Location, validation.Required, notBlank),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&req.LocationLat, validation.By(coordinateIn(-90, 90))),
		validation.Field(&req.LocationLon, validation.By(coordinateIn(-180, 180))),
	)
}

// ToInput converts a validated request.
func (req *EventRequest) ToInput() service.EventInput {
	date, _ := time.Parse(domain.DateLayout, req.Date)

	return service.EventInput{
		Title:         req.Title,
		Description:   req.Description,
		Date:          date,
		Time:          req.Time,
		Capacity:      req.Capacity,
		LocationLabel: req.Location,
		Latitude:      req.LocationLat.Value,
		Longitude:     req.LocationLon.Value,
	}
}

// EventRequestFrom fills the edit form from a stored event.
func EventRequestFrom(e domain.Event) EventRequest {
	return EventRequest{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.Format(domain.DateLayout),
		Time:        e.Time,
		Location:    e.Location.Address,
		Capacity:    e.Capacity,
		LocationLat: NewCoordinate(e.Location.Latitude),
		LocationLon: NewCoordinate(e.Location.Longitude),
	}
}
