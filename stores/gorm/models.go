package gorm

import (
	"time"

	"github.com/admitted/authkit"
)

// AccountModel is the GORM model for accounts
type AccountModel struct {
	ID          string `gorm:"primaryKey;size:64"`
	Email       string `gorm:"size:255;uniqueIndex"`
	DisplayName string `gorm:"size:255"`

	FirstName      *string `gorm:"size:255"`
	LastName       *string `gorm:"size:255"`
	AvatarURL      *string `gorm:"size:1024"`
	Bio            *string
	School         *string `gorm:"size:255"`
	GraduationYear *int
	Major          *string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string {
	return "accounts"
}

func (m *AccountModel) ToAccount() *authkit.Account {
	return &authkit.Account{
		ID:             m.ID,
		Email:          m.Email,
		DisplayName:    m.DisplayName,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		AvatarURL:      m.AvatarURL,
		Bio:            m.Bio,
		School:         m.School,
		GraduationYear: m.GraduationYear,
		Major:          m.Major,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func AccountToModel(a *authkit.Account) *AccountModel {
	return &AccountModel{
		ID:             a.ID,
		Email:          a.Email,
		DisplayName:    a.DisplayName,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		AvatarURL:      a.AvatarURL,
		Bio:            a.Bio,
		School:         a.School,
		GraduationYear: a.GraduationYear,
		Major:          a.Major,
	}
}

// AuthMethodModel is the GORM model for auth methods. The composite unique
// index on (kind, external_id) is the store's uniqueness guarantee.
type AuthMethodModel struct {
	ID         string    `gorm:"primaryKey;size:64"`
	AccountID  string    `gorm:"size:64;index"`
	Kind       string    `gorm:"size:32;uniqueIndex:idx_kind_external_id"`
	ExternalID string    `gorm:"size:320;uniqueIndex:idx_kind_external_id"`
	Secret     *string   `gorm:"size:255"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (AuthMethodModel) TableName() string {
	return "auth_methods"
}

func (m *AuthMethodModel) ToAuthMethod() *authkit.AuthMethod {
	return &authkit.AuthMethod{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Kind:       authkit.MethodKind(m.Kind),
		ExternalID: m.ExternalID,
		Secret:     m.Secret,
		CreatedAt:  m.CreatedAt,
	}
}

func AuthMethodToModel(m *authkit.AuthMethod) *AuthMethodModel {
	return &AuthMethodModel{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Kind:       string(m.Kind),
		ExternalID: m.ExternalID,
		Secret:     m.Secret,
	}
}
