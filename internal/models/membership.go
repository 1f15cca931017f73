package models

import "time"

type Role string

const (
	RoleMember     Role = "MEMBER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Membership joins a user account to an organization with a role.
// A user may hold rows in several organizations, but the signup-time attach
// path only ever creates the first one.
type Membership struct {
	ID             int64  `gorm:"primaryKey"`
	UserID         int64  `gorm:"not null;uniqueIndex:idx_membership_user_org"`
	OrganizationID string `gorm:"size:36;not null;index;uniqueIndex:idx_membership_user_org"`
	Role           Role   `gorm:"size:30;not null"`
	CreatedAt      time.Time

	User         *UserAccount  `gorm:"foreignKey:UserID"`
	Organization *Organization `gorm:"foreignKey:OrganizationID"`
}
