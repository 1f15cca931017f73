package models

import "time"

type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

type OrgStatus string

const (
	OrgActive    OrgStatus = "ACTIVE"
	OrgSuspended OrgStatus = "SUSPENDED"
)

type Organization struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:255;not null"`
	Plan      Plan      `gorm:"size:50;not null;default:FREE"`
	Status    OrgStatus `gorm:"size:30;not null;default:ACTIVE"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Memberships []Membership `gorm:"foreignKey:OrganizationID"`
}
