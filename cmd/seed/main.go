// Command seed fills a development database with users, locations and
// events. Every account uses the password "password123".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventsplus-api/cmd/app"
	"github.com/vietanh2810/eventsplus-api/internal/config"
	"github.com/vietanh2810/eventsplus-api/internal/domain"
	"github.com/vietanh2810/eventsplus-api/internal/logger"
	"github.com/vietanh2810/eventsplus-api/internal/repository"
	"github.com/vietanh2810/eventsplus-api/internal/repository/dao"
	"github.com/vietanh2810/eventsplus-api/internal/service"
)

const seedPassword = "password123"

type seedUser struct {
	name, email string
	role        domain.Role
}

type seedEvent struct {
	title, description string
	date, time         string
	capacity           int
	organizer          int
	location           int
	participants       []int
}

var (
	users = []seedUser{
		{"Gabriel Ferreira", "admin@eventsplus.pt", domain.RoleAdmin},
		{"João Martins", "joao@eventsplus.pt", domain.RoleOrganizer},
		{"Ana Ribeiro", "ana@eventsplus.pt", domain.RoleOrganizer},
		{"Miguel Santos", "miguel@eventsplus.pt", domain.RoleOrganizer},
		{"Rita Costa", "rita@eventsplus.pt", domain.RoleParticipant},
		{"Pedro Silva", "pedro@eventsplus.pt", domain.RoleParticipant},
		{"Carla Lopes", "carla@eventsplus.pt", domain.RoleParticipant},
		{"Tiago Moreira", "tiago@eventsplus.pt", domain.RoleParticipant},
	}

	locations = []domain.Location{
		{Address: "Rua das Flores 123", City: "Porto", Latitude: 41.1496, Longitude: -8.6109},
		{Address: "Av. Central", City: "Braga", Latitude: 41.5454, Longitude: -8.4265},
		{Address: "Praça do Império", City: "Lisboa", Latitude: 38.6977, Longitude: -9.2066},
		{Address: "Zona Ribeirinha", City: "Coimbra", Latitude: 40.2111, Longitude: -8.4291},
		{Address: "Rua da Juventude", City: "Aveiro", Latitude: 40.6405, Longitude: -8.6538},
		{Address: "Av. da Liberdade", City: "Faro", Latitude: 37.0194, Longitude: -7.9304},
	}

	events = []seedEvent{
		{"JS developers meetup", "Informal meetup for JavaScript developers.", "2026-03-24", "18:00", 40, 1, 0, []int{4, 5}},
		{"React workshop", "A hands-on introduction to React.", "2026-04-02", "14:30", 25, 2, 1, []int{4, 5, 6}},
		{"Charity FIFA tournament", "Tournament raising funds for a local charity.", "2026-04-10", "15:00", 16, 3, 4, []int{6}},
		{"Community walk", "Outdoor activity for the whole family.", "2026-04-18", "09:30", 60, 1, 3, []int{4, 7}},
		{"Startup pitch night", "Five startups, five minutes each.", "2026-05-06", "19:00", 2, 2, 2, []int{5, 6}},
		{"Open source sprint", "Contribute to open source with mentors.", "2026-05-20", "10:00", 30, 3, 5, nil},
	}
)

func main() {
	configPath := flag.String("config", "./cmd/app/config.yml", "path to the config file")
	reset := flag.Bool("reset", false, "empty every table before seeding")
	flag.Parse()

	if err := run(*configPath, *reset); err != nil {
		panic(err)
	}
}

func run(configPath string, reset bool) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	db, err := app.OpenDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if reset {
		if conf.API.Environment != config.EnvDevelopment {
			return errors.New("refusing to reset a non development database")
		}
		if err = db.Exec("TRUNCATE event_participants, events, locations, users RESTART IDENTITY CASCADE").Error; err != nil {
			return fmt.Errorf("failed to reset database -> %w", err)
		}
		zap.L().Info("database cleaned")
	}

	return seed(context.Background(), db)
}

func seed(ctx context.Context, db *gorm.DB) error {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	locationRepo := repository.NewLocationRepository(dao.NewLocationDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	locationSvc := service.NewLocationService(locationRepo)
	eventSvc := service.NewEventService(eventRepo, locationSvc, nil, nil)

	identities := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		created, err := authSvc.Register(ctx, domain.User{Name: u.name, Email: u.email, Password: seedPassword})
		if err != nil {
			return fmt.Errorf("authSvc.Register(%s) -> %w", u.email, err)
		}
		if u.role != created.Role {
			if created, err = userSvc.UpdateUser(ctx, created.ID, created.Name, created.Email, u.role); err != nil {
				return fmt.Errorf("userSvc.UpdateUser(%s) -> %w", u.email, err)
			}
		}
		identities = append(identities, created.Identity())
	}
	zap.L().Info("users created", zap.Int("count", len(identities)))

	stored := make([]domain.Location, 0, len(locations))
	for _, l := range locations {
		created, err := locationSvc.CreateLocation(ctx, l)
		if err != nil {
			return fmt.Errorf("locationSvc.CreateLocation(%s) -> %w", l.Address, err)
		}
		stored = append(stored, created)
	}
	zap.L().Info("locations created", zap.Int("count", len(stored)))

	for _, e := range events {
		date, err := time.Parse(domain.DateLayout, e.date)
		if err != nil {
			return fmt.Errorf("time.Parse(%s) -> %w", e.date, err)
		}

		location := stored[e.location]
		created, err := eventSvc.CreateEvent(ctx, identities[e.organizer], service.EventInput{
			Title:         e.title,
			Description:   e.description,
			Date:          date,
			Time:          e.time,
			Capacity:      e.capacity,
			LocationLabel: location.Address,
			Latitude:      location.Latitude,
			Longitude:     location.Longitude,
		})
		if err != nil {
			return fmt.Errorf("eventSvc.CreateEvent(%s) -> %w", e.title, err)
		}

		for _, p := range e.participants {
			if _, err = eventSvc.JoinEvent(ctx, identities[p], created.ID); err != nil {
				return fmt.Errorf("eventSvc.JoinEvent(%s) -> %w", e.title, err)
			}
		}
	}
	zap.L().Info("events created", zap.Int("count", len(events)))

	return nil
}
