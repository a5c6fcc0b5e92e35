package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Guest capacity tiers. A listing's Capacity must be one of these four
// strings; MaxGuestsForCapacity maps them to a numeric bound for search.
const (
	CapacityUpTo10 = "Up to 10 guests"
	CapacityUpTo15 = "Up to 15 guests"
	CapacityUpTo25 = "Up to 25 guests"
	CapacityUpTo50 = "Up to 50 guests"
)

var capacityGuests = map[string]int{
	CapacityUpTo10: 10,
	CapacityUpTo15: 15,
	CapacityUpTo25: 25,
	CapacityUpTo50: 50,
}

func ValidCapacity(tier string) bool {
	_, ok := capacityGuests[tier]
	return ok
}

// MaxGuestsForCapacity returns 0 for an unknown tier, which never satisfies
// a guest-count filter.
func MaxGuestsForCapacity(tier string) int {
	return capacityGuests[tier]
}

type Listing struct {
	gorm.Model

	HostID uint `gorm:"index;column:host_id" json:"hostId"`

	Name         string  `gorm:"size:191" json:"name"`
	Description  string  `gorm:"type:text" json:"description"`
	PricePerHour float64 `gorm:"column:price_per_hour" json:"pricePerHour"`
	ImageURL     string  `gorm:"column:image_url;size:512" json:"imageUrl"`

	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities"`

	City     string  `gorm:"size:191;index" json:"city"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Capacity string  `gorm:"size:64" json:"capacity"`

	Host User `gorm:"foreignKey:HostID" json:"-"`
}

// AmenityList decodes the stored JSON array. A broken or empty column
// decodes to nil, which search treats as "no amenities".
func (l *Listing) AmenityList() []string {
	var out []string
	if len(l.Amenities) == 0 {
		return nil
	}
	_ = json.Unmarshal(l.Amenities, &out)
	return out
}
