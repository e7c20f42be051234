package authkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/admitted/authkit/oauth2"
)

// MinPasswordLen is the minimum accepted password length for registration
const MinPasswordLen = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthResult is the outcome of any operation that authenticates an account
type AuthResult struct {
	AccountID string `json:"user_id"`
	Token     string `json:"token"`
}

// AuthService ties the pieces together: it decides identity, issues session
// tokens and reconciles local and federated identities against account
// records. Persistence uniqueness is the store's job; the service's own
// existence checks are an optimization, not the source of truth.
type AuthService struct {
	store  AccountStore
	tokens *TokenIssuer
	logger *slog.Logger
}

// NewAuthService creates an AuthService. A nil logger discards all output.
func NewAuthService(store AccountStore, tokens *TokenIssuer, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AuthService{store: store, tokens: tokens, logger: logger}
}

// Register creates an account with a local password method and logs it in.
// Returns an *AuthError for invalid input and ErrConflict if the email is
// already registered.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	if email == "" {
		return nil, NewAuthError(ErrCodeMissingField, "Email is required", "email")
	}
	if !emailRegex.MatchString(email) {
		return nil, NewAuthError(ErrCodeInvalidEmail, "Invalid email format", "email")
	}
	if len(password) < MinPasswordLen {
		return nil, NewAuthError(ErrCodeWeakPassword,
			fmt.Sprintf("Password must be at least %d characters", MinPasswordLen), "password")
	}
	if displayName == "" {
		return nil, NewAuthError(ErrCodeMissingField, "Name is required", "name")
	}

	// Cheap pre-check; the store's uniqueness constraint decides races
	if _, err := s.store.AccountByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
	}
	method := &AuthMethod{
		ID:         uuid.New().String(),
		AccountID:  account.ID,
		Kind:       MethodLocal,
		ExternalID: email,
		Secret:     &hash,
	}
	if err := s.store.CreateAccount(ctx, account, method); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", "account_id", account.ID)
	return s.authResult(account.ID)
}

// Login authenticates an account with email and password. Any failure -
// unknown email, no local method, wrong password - yields ErrUnauthorized
// with no further detail.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return nil, ErrUnauthorized
	}

	method, err := s.store.AuthMethodByExternalID(ctx, MethodLocal, email)
	if err != nil || method.AccountID != account.ID {
		return nil, ErrUnauthorized
	}
	if method.Secret == nil || !CheckPassword(password, *method.Secret) {
		return nil, ErrUnauthorized
	}

	return s.authResult(account.ID)
}

// SocialLogin resolves a provider-asserted identity to an account,
// creating whatever is missing, and logs it in:
//
//  1. A method matching (kind, subject id) resolves to its account.
//  2. Otherwise an account with the same email gains a new method of this
//     kind - a local account and a later Google login with the same email
//     merge into one identity.
//  3. Otherwise a new account is created from the provider identity,
//     atomically with its method.
func (s *AuthService) SocialLogin(ctx context.Context, kind MethodKind, identity *oauth2.Identity) (*AuthResult, error) {
	method, err := s.store.AuthMethodByExternalID(ctx, kind, identity.SubjectID)
	if err == nil {
		return s.authResult(method.AccountID)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up auth method: %w", err)
	}

	account, err := s.store.AccountByEmail(ctx, identity.Email)
	if err == nil {
		method = &AuthMethod{
			ID:         uuid.New().String(),
			AccountID:  account.ID,
			Kind:       kind,
			ExternalID: identity.SubjectID,
		}
		if err := s.store.AddAuthMethod(ctx, method); err != nil {
			// A concurrent login may have bound the method first; resolve to it
			if errors.Is(err, ErrConflict) {
				if existing, lookupErr := s.store.AuthMethodByExternalID(ctx, kind, identity.SubjectID); lookupErr == nil {
					return s.authResult(existing.AccountID)
				}
			}
			return nil, err
		}
		s.logger.Info("auth method linked", "account_id", account.ID, "kind", kind)
		return s.authResult(account.ID)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	account = &Account{
		ID:          uuid.New().String(),
		Email:       identity.Email,
		DisplayName: identity.Name,
	}
	method = &AuthMethod{
		ID:         uuid.New().String(),
		AccountID:  account.ID,
		Kind:       kind,
		ExternalID: identity.SubjectID,
	}
	if err := s.store.CreateAccount(ctx, account, method); err != nil {
		return nil, err
	}

	s.logger.Info("account created from social login", "account_id", account.ID, "kind", kind)
	return s.authResult(account.ID)
}

// Profile returns the account for the given id, or ErrNotFound
func (s *AuthService) Profile(ctx context.Context, accountID string) (*Account, error) {
	return s.store.AccountByID(ctx, accountID)
}

// UpdateProfile applies the non-nil patch fields and returns the updated
// account, or ErrNotFound if the id no longer resolves
func (s *AuthService) UpdateProfile(ctx context.Context, accountID string, patch *ProfilePatch) (*Account, error) {
	return s.store.UpdateProfile(ctx, accountID, patch)
}

func (s *AuthService) authResult(accountID string) (*AuthResult, error) {
	token, err := s.tokens.Issue(accountID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccountID: accountID, Token: token}, nil
}
