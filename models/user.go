package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Provider   string `gorm:"column:provider;size:32;uniqueIndex:idx_provider_subject" json:"provider"`
	ProviderID string `gorm:"column:provider_id;size:191;uniqueIndex:idx_provider_subject" json:"-"`

	DisplayName string `gorm:"column:display_name;size:191" json:"displayName"`
	Email       string `gorm:"column:email;size:191" json:"email"`
	AvatarURL   string `gorm:"column:avatar_url;size:512" json:"avatarUrl,omitempty"`

	// Only set for the seeded demo host; OAuth users never get one.
	PasswordHash string `gorm:"column:password_hash;size:191" json:"-"`
}
