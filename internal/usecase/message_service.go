package usecase

import (
	"context"
	"errors"

	"example.com/helloapi/internal/domain"
	"example.com/helloapi/internal/repository"
	"example.com/helloapi/internal/storage"

	"github.com/charmbracelet/log"
)

// MessageService serves the greeting, falling back to domain.DefaultMessage
// while nothing is stored.
type MessageService struct {
	repo   repository.MessageRepository
	logger *log.Logger
}

func NewMessageService(repo repository.MessageRepository, logger *log.Logger) *MessageService {
	return &MessageService{
		repo:   repo,
		logger: logger,
	}
}

// Init stores the default greeting if the store is empty. Call it once,
// before serving requests.
func (s *MessageService) Init(ctx context.Context) error {
	created, err := s.repo.EnsureMessage(ctx, domain.DefaultMessage)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("seeded greeting", "message", domain.DefaultMessage)
	}
	return nil
}

// Get never writes: an absent row yields the default text.
func (s *MessageService) Get(ctx context.Context) (string, error) {
	m, err := s.repo.GetMessage(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.DefaultMessage, nil
		}
		return "", err
	}
	return m.Message, nil
}

func (s *MessageService) Set(ctx context.Context, text string) (string, error) {
	m, err := s.repo.UpsertMessage(ctx, text)
	if err != nil {
		return "", err
	}
	s.logger.Debug("greeting updated", "message", m.Message)
	return m.Message, nil
}
