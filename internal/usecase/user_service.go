package usecase

import (
	"context"

	"example.com/helloapi/internal/domain"
	"example.com/helloapi/internal/repository"

	"github.com/charmbracelet/log"
)

type UserService struct {
	repo   repository.UserRepository
	logger *log.Logger
}

func NewUserService(repo repository.UserRepository, logger *log.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	items, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.User{}
	}
	return items, nil
}

func (s *UserService) Create(ctx context.Context, name string) (domain.User, error) {
	u, err := s.repo.CreateUser(ctx, name)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Debug("user created", "id", u.ID, "name", u.Name)
	return u, nil
}
