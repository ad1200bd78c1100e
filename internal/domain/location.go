package domain

import "time"

type LocationSource string

const (
	SourceOSM    LocationSource = "OSM"
	SourceManual LocationSource = "MANUAL"
)

func (s LocationSource) Valid() bool {
	return s == SourceOSM || s == SourceManual
}

type Location struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	City      string         `json:"city,omitempty"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Source    LocationSource `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
