// Package org manages organizations and the one-shot signup attach.
package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"accountd/internal/account"
	"accountd/internal/apperr"
	"accountd/internal/logging"
	"accountd/internal/models"
	"accountd/internal/store"
)

type Service struct {
	store store.Store
	log   logging.Logger
}

func NewService(st store.Store, log logging.Logger) *Service {
	return &Service{store: st, log: log}
}

// CreateAndAttach creates an organization (FREE, ACTIVE) and makes the user
// its ADMIN, marking onboarding complete. The operation is strictly one-shot:
// an account with any existing membership is rejected. Organization, membership
// and account update commit or roll back together.
func (s *Service) CreateAndAttach(ctx context.Context, externalUserID, name string) error {
	return s.store.Transaction(ctx, func(st store.Store) error {
		userAccount, err := st.Accounts().FindByExternalID(ctx, externalUserID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Business(apperr.CodeAccountNotFound, "user account not found for external user id "+externalUserID)
		}
		if err != nil {
			return err
		}

		memberships, err := st.Memberships().ListByUser(ctx, userAccount.ID)
		if err != nil {
			return err
		}
		if len(memberships) > 0 {
			return apperr.Business(apperr.CodeAlreadyAttached,
				fmt.Sprintf("user %d already has an organization attached", userAccount.ID))
		}

		organization := &models.Organization{
			ID:     uuid.NewString(),
			Name:   name,
			Plan:   models.PlanFree,
			Status: models.OrgActive,
		}
		if err := st.Organizations().Create(ctx, organization); err != nil {
			return err
		}
		s.log.Info(ctx, "created organization", "organization_id", organization.ID, "external_user_id", externalUserID)

		m := &models.Membership{
			UserID:         userAccount.ID,
			OrganizationID: organization.ID,
			Role:           models.RoleAdmin,
		}
		if err := st.Memberships().Create(ctx, m); err != nil {
			return err
		}

		userAccount.OnboardingCompleted = true
		if err := st.Accounts().Save(ctx, userAccount); err != nil {
			return err
		}
		s.log.Info(ctx, "attached organization to user account", "organization_id", organization.ID, "user_id", userAccount.ID)
		return nil
	})
}

// Get returns one organization view.
func (s *Service) Get(ctx context.Context, orgID string) (*account.OrganizationView, error) {
	organization, err := s.store.Organizations().FindByID(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Business(apperr.CodeOrganizationNotFound, "no organization found for id "+orgID)
	}
	if err != nil {
		return nil, err
	}
	return account.BuildOrganizationView(organization), nil
}

// List returns all organizations.
func (s *Service) List(ctx context.Context) ([]*account.OrganizationView, error) {
	organizations, err := s.store.Organizations().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*account.OrganizationView, 0, len(organizations))
	for i := range organizations {
		views = append(views, account.BuildOrganizationView(&organizations[i]))
	}
	return views, nil
}
