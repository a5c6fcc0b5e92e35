package models

import (
	"time"

	"gorm.io/gorm"
)

type CalendarEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HostID    uint `gorm:"index;column:host_id" json:"hostId"`
	ListingID uint `gorm:"index;column:listing_id" json:"listingId"`

	// Structured dedup key. Events synced before this column existed carry
	// the booking id only inside Description ("Booking ID: <n>").
	BookingID *uint `gorm:"index;column:booking_id" json:"bookingId,omitempty"`

	Title       string `gorm:"size:191" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	StartTime time.Time `gorm:"column:start_time" json:"startTime"`
	EndTime   time.Time `gorm:"column:end_time" json:"endTime"`
}
