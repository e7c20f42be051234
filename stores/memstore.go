// Package stores provides AccountStore implementations. The in-memory
// store here backs tests and local development; the gorm subpackage holds
// the database-backed store.
package stores

import (
	"context"
	"sync"
	"time"

	"github.com/admitted/authkit"
)

// MemStore is an in-memory AccountStore. All methods are safe for
// concurrent use. Data does not survive the process.
type MemStore struct {
	mu       sync.Mutex
	accounts map[string]*authkit.Account    // by account id
	byEmail  map[string]string              // email -> account id
	methods  map[string]*authkit.AuthMethod // by kind + "\x00" + external id
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: map[string]*authkit.Account{},
		byEmail:  map[string]string{},
		methods:  map[string]*authkit.AuthMethod{},
	}
}

func methodKey(kind authkit.MethodKind, externalID string) string {
	return string(kind) + "\x00" + externalID
}

func (s *MemStore) AccountByEmail(ctx context.Context, email string) (*authkit.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, authkit.ErrNotFound
	}
	return copyAccount(s.accounts[id]), nil
}

func (s *MemStore) AccountByID(ctx context.Context, id string) (*authkit.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, authkit.ErrNotFound
	}
	return copyAccount(account), nil
}

func (s *MemStore) AuthMethodByExternalID(ctx context.Context, kind authkit.MethodKind, externalID string) (*authkit.AuthMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	method, ok := s.methods[methodKey(kind, externalID)]
	if !ok {
		return nil, authkit.ErrNotFound
	}
	out := *method
	return &out, nil
}

func (s *MemStore) CreateAccount(ctx context.Context, account *authkit.Account, method *authkit.AuthMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[account.Email]; exists {
		return authkit.ErrConflict
	}
	if _, exists := s.methods[methodKey(method.Kind, method.ExternalID)]; exists {
		return authkit.ErrConflict
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	method.CreatedAt = now

	s.accounts[account.ID] = copyAccount(account)
	s.byEmail[account.Email] = account.ID
	stored := *method
	s.methods[methodKey(method.Kind, method.ExternalID)] = &stored
	return nil
}

func (s *MemStore) AddAuthMethod(ctx context.Context, method *authkit.AuthMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := methodKey(method.Kind, method.ExternalID)
	if _, exists := s.methods[key]; exists {
		return authkit.ErrConflict
	}
	method.CreatedAt = time.Now()
	stored := *method
	s.methods[key] = &stored
	return nil
}

func (s *MemStore) UpdateProfile(ctx context.Context, accountID string, patch *authkit.ProfilePatch) (*authkit.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, authkit.ErrNotFound
	}
	if patch.DisplayName != nil {
		account.DisplayName = *patch.DisplayName
	}
	if patch.FirstName != nil {
		account.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		account.LastName = patch.LastName
	}
	if patch.AvatarURL != nil {
		account.AvatarURL = patch.AvatarURL
	}
	if patch.Bio != nil {
		account.Bio = patch.Bio
	}
	if patch.School != nil {
		account.School = patch.School
	}
	if patch.GraduationYear != nil {
		account.GraduationYear = patch.GraduationYear
	}
	if patch.Major != nil {
		account.Major = patch.Major
	}
	account.UpdatedAt = time.Now()
	return copyAccount(account), nil
}

func copyAccount(a *authkit.Account) *authkit.Account {
	out := *a
	return &out
}
