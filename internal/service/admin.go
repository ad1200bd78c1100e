package service

import (
	"context"
	"fmt"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type DashboardStats struct {
	Users     int64 `json:"users"`
	Events    int64 `json:"events"`
	Locations int64 `json:"locations"`
}

type AdminService struct {
	users     Counter
	events    Counter
	locations Counter
}

func NewAdminService(users, events, locations Counter) *AdminService {
	return &AdminService{
		users:     users,
		events:    events,
		locations: locations,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)

	if stats.Users, err = s.users.Count(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("s.users.Count -> %w", err)
	}
	if stats.Events, err = s.events.Count(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("s.events.Count -> %w", err)
	}
	if stats.Locations, err = s.locations.Count(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("s.locations.Count -> %w", err)
	}

	return stats, nil
}
