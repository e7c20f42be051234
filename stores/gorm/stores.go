// Package gorm provides a GORM-backed implementation of the authkit
// AccountStore. It works with any database GORM supports and is the store
// to use for real deployments.
//
// Open the database with TranslateError enabled so unique-constraint
// violations surface as gorm.ErrDuplicatedKey:
//
//	db, _ := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	store := gormstore.NewAccountStore(db)
package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/admitted/authkit"
)

// AutoMigrate runs database migrations for the authkit tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AccountModel{},
		&AuthMethodModel{},
	)
}

// AccountStore implements authkit.AccountStore using GORM
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) AccountByEmail(ctx context.Context, email string) (*authkit.Account, error) {
	var model AccountModel
	if err := s.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToAccount(), nil
}

func (s *AccountStore) AccountByID(ctx context.Context, id string) (*authkit.Account, error) {
	var model AccountModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToAccount(), nil
}

func (s *AccountStore) AuthMethodByExternalID(ctx context.Context, kind authkit.MethodKind, externalID string) (*authkit.AuthMethod, error) {
	var model AuthMethodModel
	err := s.db.WithContext(ctx).First(&model, "kind = ? AND external_id = ?", string(kind), externalID).Error
	if err != nil {
		return nil, mapError(err)
	}
	return model.ToAuthMethod(), nil
}

func (s *AccountStore) CreateAccount(ctx context.Context, account *authkit.Account, method *authkit.AuthMethod) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accountModel := AccountToModel(account)
		if err := tx.Create(accountModel).Error; err != nil {
			return err
		}
		if err := tx.Create(AuthMethodToModel(method)).Error; err != nil {
			return err
		}
		account.CreatedAt = accountModel.CreatedAt
		account.UpdatedAt = accountModel.UpdatedAt
		return nil
	})
	return mapError(err)
}

func (s *AccountStore) AddAuthMethod(ctx context.Context, method *authkit.AuthMethod) error {
	return mapError(s.db.WithContext(ctx).Create(AuthMethodToModel(method)).Error)
}

func (s *AccountStore) UpdateProfile(ctx context.Context, accountID string, patch *authkit.ProfilePatch) (*authkit.Account, error) {
	var model AccountModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model, "id = ?", accountID).Error; err != nil {
			return err
		}
		updates := patchUpdates(patch)
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&model).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&model, "id = ?", accountID).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return model.ToAccount(), nil
}

// patchUpdates flattens the non-nil patch fields into a column map so that
// unset fields never reach the UPDATE statement
func patchUpdates(patch *authkit.ProfilePatch) map[string]any {
	updates := map[string]any{}
	if patch.DisplayName != nil {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.School != nil {
		updates["school"] = *patch.School
	}
	if patch.GraduationYear != nil {
		updates["graduation_year"] = *patch.GraduationYear
	}
	if patch.Major != nil {
		updates["major"] = *patch.Major
	}
	return updates
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return authkit.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return authkit.ErrConflict
	default:
		return err
	}
}
