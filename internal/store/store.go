// Package store is the persistence layer. Services depend on the interfaces
// here; the gorm implementation is the production one.
package store

import (
	"context"
	"errors"

	"accountd/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Accounts interface {
	FindByExternalID(ctx context.Context, externalUserID string) (*models.UserAccount, error)
	FindByID(ctx context.Context, id int64) (*models.UserAccount, error)

	// Save inserts when the account has no id yet and updates otherwise.
	// A uniqueness violation on external_user_id returns ErrDuplicate.
	Save(ctx context.Context, account *models.UserAccount) error
}

type Organizations interface {
	FindByID(ctx context.Context, id string) (*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
	List(ctx context.Context) ([]models.Organization, error)
}

type Memberships interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Membership, error)
	ListByOrganization(ctx context.Context, orgID string) ([]models.Membership, error)
	FindByUserAndOrganization(ctx context.Context, userID int64, orgID string) (*models.Membership, error)
	Create(ctx context.Context, m *models.Membership) error
}

type Store interface {
	Accounts() Accounts
	Organizations() Organizations
	Memberships() Memberships

	// Transaction runs fn against a Store bound to one database transaction.
	// Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(Store) error) error
}
