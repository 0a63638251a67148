package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemAccountStore is an in-memory AccountStore for tests and
// single-process deployments without a Postgres instance.
type MemAccountStore struct {
	mu         sync.Mutex
	byEmail    map[string]User
	usageByUID map[string][]APIUsage
	nextUsage  int64
}

// NewMemAccountStore builds an empty MemAccountStore.
func NewMemAccountStore() *MemAccountStore {
	return &MemAccountStore{
		byEmail:    make(map[string]User),
		usageByUID: make(map[string][]APIUsage),
	}
}

func (s *MemAccountStore) CreateUser(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[u.Email]; exists {
		return fmt.Errorf("accounts: %s already exists", u.Email)
	}
	s.byEmail[u.Email] = u
	return nil
}

func (s *MemAccountStore) UserByEmail(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return User{}, fmt.Errorf("accounts: no user %s", email)
	}
	return u, nil
}

func (s *MemAccountStore) RecordUsage(_ context.Context, userID, apiLink string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUsage++
	s.usageByUID[userID] = append(s.usageByUID[userID], APIUsage{
		ID: s.nextUsage, UserID: userID, APILink: apiLink, Timestamp: at,
	})
	return nil
}

func (s *MemAccountStore) UsageByUser(_ context.Context, userID string) ([]APIUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usageByUID[userID], nil
}
