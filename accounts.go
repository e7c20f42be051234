package authkit

import (
	"context"
	"time"
)

// MethodKind identifies how an account proves its identity
type MethodKind string

const (
	MethodLocal    MethodKind = "local"
	MethodGoogle   MethodKind = "google"
	MethodFacebook MethodKind = "facebook"
)

// Account is a registered user, keyed by unique email. An account may hold
// several auth methods (local password plus one or more social providers).
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`

	// Optional profile fields, each independently nullable
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	School         *string `json:"school,omitempty"`
	GraduationYear *int    `json:"graduation_year,omitempty"`
	Major          *string `json:"major,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthMethod is one way of proving control of an account. For local methods
// ExternalID is the email and Secret holds the password hash; for social
// methods ExternalID is the provider's subject id and Secret is nil.
// The (Kind, ExternalID) pair is unique across all accounts.
type AuthMethod struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"account_id"`
	Kind       MethodKind `json:"kind"`
	ExternalID string     `json:"external_id"`
	Secret     *string    `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ProfilePatch carries a partial profile update. Nil fields are left
// untouched; only fields the caller explicitly set are applied. DisplayName,
// FirstName and LastName are independent - no field is ever derived from
// another.
type ProfilePatch struct {
	DisplayName    *string `json:"name,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	School         *string `json:"school,omitempty"`
	GraduationYear *int    `json:"graduation_year,omitempty"`
	Major          *string `json:"major,omitempty"`
}

// IsEmpty reports whether the patch sets no fields at all
func (p *ProfilePatch) IsEmpty() bool {
	return p.DisplayName == nil && p.FirstName == nil && p.LastName == nil &&
		p.AvatarURL == nil && p.Bio == nil && p.School == nil &&
		p.GraduationYear == nil && p.Major == nil
}

// AccountStore manages accounts and their auth methods.
//
// Uniqueness of email and of (kind, external id) is enforced here, not in the
// orchestrator: under concurrent creation the store must reject the losing
// writer with ErrConflict rather than corrupt state. CreateAccount is atomic -
// a reader never observes the account without its auth method or vice versa.
type AccountStore interface {
	// AccountByEmail returns the account with the given email, or ErrNotFound
	AccountByEmail(ctx context.Context, email string) (*Account, error)

	// AccountByID returns the account with the given id, or ErrNotFound
	AccountByID(ctx context.Context, id string) (*Account, error)

	// AuthMethodByExternalID returns the method matching (kind, externalID),
	// or ErrNotFound
	AuthMethodByExternalID(ctx context.Context, kind MethodKind, externalID string) (*AuthMethod, error)

	// CreateAccount persists the account together with its first auth method.
	// Returns ErrConflict if the email or the method's (kind, external id)
	// pair is already taken. Either both rows exist afterward or neither does.
	CreateAccount(ctx context.Context, account *Account, method *AuthMethod) error

	// AddAuthMethod binds an additional auth method to an existing account.
	// Returns ErrConflict if the (kind, external id) pair is already taken.
	AddAuthMethod(ctx context.Context, method *AuthMethod) error

	// UpdateProfile applies the non-nil patch fields to the account and
	// returns the updated account, or ErrNotFound if the id does not resolve
	UpdateProfile(ctx context.Context, accountID string, patch *ProfilePatch) (*Account, error)
}
