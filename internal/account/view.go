package account

import (
	"time"

	"accountd/internal/models"
)

type OrganizationView struct {
	ID        string `json:"organizationId"`
	Name      string `json:"name"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UserAccountView is the full outward profile shape.
type UserAccountView struct {
	ID                  int64             `json:"id"`
	ExternalUserID      string            `json:"externalUserId"`
	Organization        *OrganizationView `json:"organization,omitempty"`
	Email               string            `json:"email"`
	FirstName           string            `json:"firstName,omitempty"`
	LastName            string            `json:"lastName,omitempty"`
	EmailVerified       bool              `json:"emailVerified"`
	Role                string            `json:"role,omitempty"`
	OnboardingCompleted bool              `json:"onboardingCompleted"`
	ProfilePictureURL   string            `json:"profilePictureUrl,omitempty"`
	LastSignInAt        string            `json:"lastSignInAt,omitempty"`
	CreatedAt           string            `json:"createdAt,omitempty"`
	UpdatedAt           string            `json:"updatedAt,omitempty"`
}

// UserContextView is the lightweight shape other services use for fast
// authorization checks.
type UserContextView struct {
	UserID         string `json:"userId"`
	ExternalUserID string `json:"externalUserId"`
	Email          string `json:"email"`
	Role           string `json:"role,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
}

func buildUserView(account *models.UserAccount, org *models.Organization, role string) *UserAccountView {
	view := &UserAccountView{
		ID:                  account.ID,
		ExternalUserID:      account.ExternalUserID,
		Email:               account.Email,
		FirstName:           account.FirstName,
		LastName:            account.LastName,
		EmailVerified:       account.EmailVerified,
		Role:                role,
		OnboardingCompleted: account.OnboardingCompleted,
		ProfilePictureURL:   account.ProfilePictureURL,
		CreatedAt:           formatTime(account.CreatedAt),
		UpdatedAt:           formatTime(account.UpdatedAt),
	}
	if account.LastSignInAt != nil {
		view.LastSignInAt = formatTime(*account.LastSignInAt)
	}
	if org != nil {
		view.Organization = BuildOrganizationView(org)
	}
	return view
}

// BuildOrganizationView is shared with the organization endpoints.
func BuildOrganizationView(org *models.Organization) *OrganizationView {
	return &OrganizationView{
		ID:        org.ID,
		Name:      org.Name,
		Plan:      string(org.Plan),
		Status:    string(org.Status),
		CreatedAt: formatTime(org.CreatedAt),
		UpdatedAt: formatTime(org.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
