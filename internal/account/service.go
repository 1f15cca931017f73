// Package account reconciles identity-provider users with local accounts and
// assembles the outward-facing user views.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/datatypes"

	"accountd/internal/apperr"
	"accountd/internal/identity"
	"accountd/internal/logging"
	"accountd/internal/models"
	"accountd/internal/store"
)

type Service struct {
	store    store.Store
	resolver identity.Resolver
	log      logging.Logger
}

func NewService(st store.Store, resolver identity.Resolver, log logging.Logger) *Service {
	return &Service{store: st, resolver: resolver, log: log}
}

// Sync reconciles the identity provider's view of one user with the local
// user_accounts table. An existing account gets its profile fields overwritten;
// a missing one is created. orgHint is advisory: it attaches a MEMBER
// membership only when the account has no membership yet and the organization
// exists. Everything after the provider lookup runs in one transaction.
func (s *Service) Sync(ctx context.Context, externalUserID, orgHint string) (*UserAccountView, error) {
	profile, err := s.resolver.GetUser(ctx, externalUserID)
	if err != nil {
		return nil, err
	}

	var view *UserAccountView
	err = s.store.Transaction(ctx, func(st store.Store) error {
		account, err := st.Accounts().FindByExternalID(ctx, externalUserID)
		switch {
		case err == nil:
			if err := s.updateExisting(ctx, st, account, profile, orgHint); err != nil {
				return err
			}
		case errors.Is(err, store.ErrNotFound):
			account, err = s.createNew(ctx, st, externalUserID, profile, orgHint)
			if err != nil {
				return err
			}
		default:
			return err
		}

		s.applyLastSignIn(ctx, account, profile.LastSignInAt)

		if err := st.Accounts().Save(ctx, account); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.Conflict(apperr.CodeDuplicateAccount,
					"concurrent signup for external user "+externalUserID+", retry")
			}
			return err
		}

		view, err = s.assembleView(ctx, st, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) updateExisting(ctx context.Context, st store.Store, account *models.UserAccount, profile *identity.Profile, orgHint string) error {
	s.log.Info(ctx, "updating existing user account", "external_user_id", account.ExternalUserID)

	memberships, err := st.Memberships().ListByUser(ctx, account.ID)
	if err != nil {
		return err
	}
	// An already-attached account ignores the hint entirely.
	if len(memberships) == 0 && orgHint != "" {
		if err := s.attachMember(ctx, st, account, orgHint); err != nil {
			return err
		}
	}

	applyProfile(account, profile)
	return nil
}

func (s *Service) createNew(ctx context.Context, st store.Store, externalUserID string, profile *identity.Profile, orgHint string) (*models.UserAccount, error) {
	s.log.Info(ctx, "creating new user account", "external_user_id", externalUserID)

	account := &models.UserAccount{ExternalUserID: externalUserID}
	applyProfile(account, profile)

	if err := st.Accounts().Save(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict(apperr.CodeDuplicateAccount,
				"concurrent signup for external user "+externalUserID+", retry")
		}
		return nil, err
	}

	if orgHint != "" {
		if err := s.attachMember(ctx, st, account, orgHint); err != nil {
			return nil, err
		}
	}

	return account, nil
}

// attachMember attaches a MEMBER membership for orgID. An unresolvable orgID
// is logged and skipped: signup may legitimately precede org creation.
func (s *Service) attachMember(ctx context.Context, st store.Store, account *models.UserAccount, orgID string) error {
	org, err := st.Organizations().FindByID(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Warn(ctx, "organization not found, cannot attach", "organization_id", orgID)
		return nil
	}
	if err != nil {
		return err
	}

	m := &models.Membership{
		UserID:         account.ID,
		OrganizationID: org.ID,
		Role:           models.RoleMember,
	}
	if err := st.Memberships().Create(ctx, m); err != nil {
		return err
	}
	s.log.Info(ctx, "attached organization to user", "organization_id", org.ID, "user_id", account.ID)
	return nil
}

func applyProfile(account *models.UserAccount, profile *identity.Profile) {
	account.Email = profile.Email
	account.FirstName = profile.FirstName
	account.LastName = profile.LastName
	account.EmailVerified = profile.EmailVerified
	account.ProfilePictureURL = profile.ProfilePictureURL

	if raw, err := json.Marshal(profile); err == nil {
		account.ProfileRaw = datatypes.JSON(raw)
	}
}

// applyLastSignIn stores the provider's last-sign-in timestamp when it parses.
// A malformed value is the one failure this service recovers from locally.
func (s *Service) applyLastSignIn(ctx context.Context, account *models.UserAccount, raw string) {
	if raw == "" {
		return
	}
	t, err := parseSignInTime(raw)
	if err != nil {
		s.log.Warn(ctx, "could not parse last_sign_in_at", "value", raw, "error", err.Error())
		return
	}
	account.LastSignInAt = &t
}

var offsetColon = regexp.MustCompile(`([+-]\d{2}):(\d{2})$`)

func parseSignInTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	// Offsetless local form, seconds precision.
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t, nil
	}
	// Numeric +HH:MM offsets that RFC3339 rejected (e.g. fractional seconds
	// beyond its shape): strip the colon and retry.
	stripped := offsetColon.ReplaceAllString(raw, "$1$2")
	if t, err := time.Parse("2006-01-02T15:04:05.999999999-0700", stripped); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported datetime format %q", raw)
}

// GetByExternalID returns the full profile view for one external user id.
func (s *Service) GetByExternalID(ctx context.Context, externalUserID string) (*UserAccountView, error) {
	account, err := s.store.Accounts().FindByExternalID(ctx, externalUserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Business(apperr.CodeAccountNotFound, "no user account found for external user id "+externalUserID)
	}
	if err != nil {
		return nil, err
	}
	return s.assembleView(ctx, s.store, account)
}

// GetByID returns the full profile view for one local account id.
func (s *Service) GetByID(ctx context.Context, id int64) (*UserAccountView, error) {
	account, err := s.store.Accounts().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Business(apperr.CodeAccountNotFound, fmt.Sprintf("no user account found for id %d", id))
	}
	if err != nil {
		return nil, err
	}
	return s.assembleView(ctx, s.store, account)
}

// ListByOrganization returns the full profile view of every member.
func (s *Service) ListByOrganization(ctx context.Context, orgID string) ([]*UserAccountView, error) {
	org, err := s.store.Organizations().FindByID(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Business(apperr.CodeOrganizationNotFound, "no organization found for id "+orgID)
	}
	if err != nil {
		return nil, err
	}

	memberships, err := s.store.Memberships().ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*UserAccountView, 0, len(memberships))
	for _, m := range memberships {
		account, err := s.store.Accounts().FindByID(ctx, m.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, buildUserView(account, org, string(m.Role)))
	}
	return views, nil
}

// Context returns the lightweight authorization view, or nil when no account
// exists for the external user id. Absence is not an error here.
func (s *Service) Context(ctx context.Context, externalUserID string) (*UserContextView, error) {
	account, err := s.store.Accounts().FindByExternalID(ctx, externalUserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	org, role, err := s.resolvePrimary(ctx, s.store, account)
	if err != nil {
		return nil, err
	}

	view := &UserContextView{
		UserID:         fmt.Sprintf("%d", account.ID),
		ExternalUserID: account.ExternalUserID,
		Email:          account.Email,
		Role:           role,
	}
	if org != nil {
		view.OrganizationID = org.ID
	}
	return view, nil
}

func (s *Service) assembleView(ctx context.Context, st store.Store, account *models.UserAccount) (*UserAccountView, error) {
	org, role, err := s.resolvePrimary(ctx, st, account)
	if err != nil {
		return nil, err
	}
	return buildUserView(account, org, role), nil
}

// resolvePrimary picks the account's first membership as its primary
// organization. Role is empty when no membership resolves, never defaulted.
func (s *Service) resolvePrimary(ctx context.Context, st store.Store, account *models.UserAccount) (*models.Organization, string, error) {
	memberships, err := st.Memberships().ListByUser(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}
	if len(memberships) == 0 {
		return nil, "", nil
	}

	primary := memberships[0]
	org, err := st.Organizations().FindByID(ctx, primary.OrganizationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return org, string(primary.Role), nil
}
