package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"accountd/internal/models"
)

type gormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Accounts() Accounts           { return &gormAccounts{db: s.db} }
func (s *gormStore) Organizations() Organizations { return &gormOrganizations{db: s.db} }
func (s *gormStore) Memberships() Memberships     { return &gormMemberships{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// translate maps gorm/driver errors onto the store sentinels. MySQL reports a
// uniqueness violation as error 1062 "Duplicate entry".
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "Duplicate entry"):
		return ErrDuplicate
	default:
		return err
	}
}

type gormAccounts struct {
	db *gorm.DB
}

func (r *gormAccounts) FindByExternalID(ctx context.Context, externalUserID string) (*models.UserAccount, error) {
	var account models.UserAccount
	err := r.db.WithContext(ctx).Where("external_user_id = ?", externalUserID).First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *gormAccounts) FindByID(ctx context.Context, id int64) (*models.UserAccount, error) {
	var account models.UserAccount
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *gormAccounts) Save(ctx context.Context, account *models.UserAccount) error {
	return translate(r.db.WithContext(ctx).Save(account).Error)
}

type gormOrganizations struct {
	db *gorm.DB
}

func (r *gormOrganizations) FindByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (r *gormOrganizations) Create(ctx context.Context, org *models.Organization) error {
	return translate(r.db.WithContext(ctx).Create(org).Error)
}

func (r *gormOrganizations) List(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.WithContext(ctx).Order("created_at").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

type gormMemberships struct {
	db *gorm.DB
}

func (r *gormMemberships) ListByUser(ctx context.Context, userID int64) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *gormMemberships) ListByOrganization(ctx context.Context, orgID string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("id").Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *gormMemberships) FindByUserAndOrganization(ctx context.Context, userID int64, orgID string) (*models.Membership, error) {
	var m models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *gormMemberships) Create(ctx context.Context, m *models.Membership) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}
