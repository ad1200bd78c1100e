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
	ErrUserNotFound  = repository.ErrUserNotFound
	ErrUserHasEvents = repository.ErrUserHasEvents
	ErrSelfDeletion  = errors.New("you cannot delete your own account")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// UpdateUser changes the profile fields an administrator may edit.
func (s *UserService) UpdateUser(ctx context.Context, id uint, name, email string, role domain.Role) (domain.User, error) {
	updated, err := s.repo.Update(ctx, domain.User{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Email: NormalizeEmail(email),
		Role:  role,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor domain.Identity, id uint) error {
	if actor.ID == id {
		return ErrSelfDeletion
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
