package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ListingID uint `gorm:"index;column:listing_id" json:"listingId"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`
	Status        string `gorm:"column:status;size:32" json:"status"`

	GuestName  string `gorm:"column:guest_name;size:191" json:"guestName"`
	GuestCount int    `gorm:"column:guest_count" json:"guestCount"`

	CheckIn  time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out" json:"checkOut"`

	// Hosted checkout session backing this booking; amount in minor units.
	CheckoutSessionID string `gorm:"column:checkout_session_id;size:191;index" json:"-"`
	AmountCents       int64  `gorm:"column:amount_cents" json:"amountCents"`

	Listing Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}
