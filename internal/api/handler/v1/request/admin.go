package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
)

type UserUpdateRequest struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
	Role  string `form:"role" json:"role"`
}

func (req *UserUpdateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, notBlank, validation.Length(2, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Role, validation.Required, validation.In(
			string(domain.RoleAdmin),
			string(domain.RoleOrganizer),
			string(domain.RoleParticipant),
		)),
	)
}

type LocationRequest struct {
	Address   string     `form:"address" json:"address"`
	City      string     `form:"city" json:"city"`
	Latitude  Coordinate `form:"latitude" json:"latitude" swaggertype:"number"`
	Longitude Coordinate `form:"longitude" json:"longitude" swaggertype:"number"`
	Source    string     `form:"source" json:"source"`
}

func (req *LocationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Address, validation.Required, notBlank, validation.Length(1, 300)),
		validation.Field(&req.City, validation.Length(0, 100)),
		validation.Field(&req.Latitude, validation.By(coordinateIn(-90, 90))),
		validation.Field(&req.Longitude, validation.By(coordinateIn(-180, 180))),
		validation.Field(&req.Source, validation.In(string(domain.SourceOSM), string(domain.SourceManual))),
	)
}

func (req *LocationRequest) ToDomain(id uint) domain.Location {
	return domain.Location{
		ID:        id,
		Address:   req.Address,
		City:      req.City,
		Latitude:  req.Latitude.Value,
		Longitude: req.Longitude.Value,
		Source:    domain.LocationSource(req.Source),
	}
}

func LocationRequestFrom(l domain.Location) LocationRequest {
	return LocationRequest{
		Address:   l.Address,
		City:      l.City,
		Latitude:  NewCoordinate(l.Latitude),
		Longitude: NewCoordinate(l.Longitude),
		Source:    string(l.Source),
	}
}
