package memory

import (
	"context"
	"sync"

	"example.com/helloapi/internal/domain"
	"example.com/helloapi/internal/storage"
)

// Store keeps users, and optionally the greeting, in process memory.
// Nothing survives a restart.
type Store struct {
	mu      sync.Mutex
	users   []domain.User
	message *domain.Message
}

// New returns a store seeded with the default users.
func New() *Store {
	return NewWithUsers(domain.SeedUsers())
}

func NewWithUsers(users []domain.User) *Store {
	out := make([]domain.User, len(users), len(users)+16)
	copy(out, users)
	return &Store{users: out}
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

// CreateUser holds the lock across the id computation and the append so
// concurrent callers never see the same max id.
func (s *Store) CreateUser(ctx context.Context, name string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.User{ID: domain.NextUserID(s.users), Name: name}
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) GetMessage(ctx context.Context) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message == nil {
		return domain.Message{}, storage.ErrNotFound
	}
	return *s.message, nil
}

func (s *Store) UpsertMessage(ctx context.Context, text string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message == nil {
		s.message = &domain.Message{ID: domain.MessageID}
	}
	s.message.Message = text
	return *s.message, nil
}

func (s *Store) EnsureMessage(ctx context.Context, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != nil {
		return false, nil
	}
	s.message = &domain.Message{ID: domain.MessageID, Message: text}
	return true, nil
}

func (s *Store) Close() error {
	return nil
}
