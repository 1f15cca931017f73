package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserAccount is the local record for one identity-provider user.
// ExternalUserID is immutable after first write; every other profile field is
// overwritten from the provider on each sync.
type UserAccount struct {
	ID                  int64          `gorm:"primaryKey"`
	ExternalUserID      string         `gorm:"size:255;uniqueIndex;not null"`
	Email               string         `gorm:"size:255;index;not null"`
	FirstName           string         `gorm:"size:255"`
	LastName            string         `gorm:"size:255"`
	EmailVerified       bool           `gorm:"not null;default:false"`
	OnboardingCompleted bool           `gorm:"not null;default:false"`
	ProfilePictureURL   string         `gorm:"size:512"`
	ProfileRaw          datatypes.JSON `gorm:"type:json"` // last raw provider profile, diagnostic only
	LastSignInAt        *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Memberships []Membership `gorm:"foreignKey:UserID"`
}
