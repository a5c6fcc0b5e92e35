package models

import (
	"time"
)

type Favorite struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`

	UserID    uint `gorm:"column:user_id;uniqueIndex:idx_user_listing" json:"userId"`
	ListingID uint `gorm:"column:listing_id;uniqueIndex:idx_user_listing" json:"listingId"`

	Listing Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}
