// services/listing_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"yardly-backend/models"

	"gorm.io/gorm"
)

var ErrListingNotFound = errors.New("listing_not_found")

// Price tier tokens accepted by search. Boundary semantics are literal to the
// labels shown to users: "under $100" excludes 100, "$100 to $200" includes
// both ends, "$200 and above" excludes 200.
const (
	PriceTierUnder100 = "under-100"
	PriceTier100To200 = "100-200"
	PriceTier200Plus  = "200-plus"
)

// SearchCriteria is request-scoped; every field is optional. CheckIn/CheckOut
// arrive as raw strings and are parsed tolerantly.
type SearchCriteria struct {
	City      string   `form:"city"`
	MinGuests int      `form:"guests"`
	Amenities []string `form:"amenities"`
	PriceTier string   `form:"price"`
	CheckIn   string   `form:"check_in"`
	CheckOut  string   `form:"check_out"`
}

var searchDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseSearchDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range searchDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateRange returns the parsed window and whether it is usable. Malformed or
// inverted input disables the date filter rather than erroring.
func (c SearchCriteria) DateRange() (time.Time, time.Time, bool) {
	from, okFrom := parseSearchDate(c.CheckIn)
	to, okTo := parseSearchDate(c.CheckOut)
	if !okFrom || !okTo || !to.After(from) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func priceMatchesTier(price float64, tier string) bool {
	switch tier {
	case "", "any":
		return true
	case PriceTierUnder100:
		return price < 100
	case PriceTier100To200:
		return price >= 100 && price <= 200
	case PriceTier200Plus:
		return price > 200
	default:
		// Unknown tier token: ignore the filter.
		return true
	}
}

// Matches applies every criterion except the date range, which needs booking
// data and is handled by Search.
func (c SearchCriteria) Matches(l *models.Listing) bool {
	if city := strings.TrimSpace(c.City); city != "" {
		if !strings.Contains(strings.ToLower(l.City), strings.ToLower(city)) {
			return false
		}
	}

	if c.MinGuests > 0 && models.MaxGuestsForCapacity(l.Capacity) < c.MinGuests {
		return false
	}

	if len(c.Amenities) > 0 {
		have := make(map[string]bool)
		for _, a := range l.AmenityList() {
			have[strings.ToLower(strings.TrimSpace(a))] = true
		}
		for _, want := range c.Amenities {
			want = strings.ToLower(strings.TrimSpace(want))
			if want == "" {
				continue
			}
			if !have[want] {
				return false
			}
		}
	}

	return priceMatchesTier(l.PricePerHour, c.PriceTier)
}

type ListingService struct {
	DB *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{DB: db}
}

// Search loads the listing set in creation order and filters it in memory.
// Empty criteria return everything.
func (s *ListingService) Search(criteria SearchCriteria) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.DB.Order("id ASC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	busy := map[uint]bool{}
	if from, to, ok := criteria.DateRange(); ok {
		var ids []uint
		err := s.DB.Model(&models.Booking{}).
			Where("status = ?", models.BookingStatusConfirmed).
			Where("check_in < ? AND check_out > ?", to, from).
			Pluck("listing_id", &ids).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load booked listings: %w", err)
		}
		for _, id := range ids {
			busy[id] = true
		}
	}

	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if busy[listings[i].ID] {
			continue
		}
		if criteria.Matches(&listings[i]) {
			out = append(out, listings[i])
		}
	}
	return out, nil
}

func (s *ListingService) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing %d: %w", id, err)
	}
	return &listing, nil
}

func (s *ListingService) Create(listing *models.Listing) error {
	if !models.ValidCapacity(listing.Capacity) {
		return fmt.Errorf("validation: unknown capacity tier %q", listing.Capacity)
	}
	if err := s.DB.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update applies a partial update. id/host/timestamps are stripped so a
// client cannot reassign ownership.
func (s *ListingService) Update(id uint, hostID uint, fields map[string]interface{}) (*models.Listing, error) {
	delete(fields, "id")
	delete(fields, "hostId")
	delete(fields, "host_id")
	delete(fields, "created_at")
	delete(fields, "updated_at")

	if tier, ok := fields["capacity"].(string); ok && !models.ValidCapacity(tier) {
		return nil, fmt.Errorf("validation: unknown capacity tier %q", tier)
	}

	var listing models.Listing
	if err := s.DB.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing %d: %w", id, err)
	}
	if listing.HostID != hostID {
		return nil, ErrListingNotFound
	}

	if len(fields) > 0 {
		if err := s.DB.Model(&listing).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update listing %d: %w", id, err)
		}
	}

	if err := s.DB.First(&listing, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload listing %d: %w", id, err)
	}
	return &listing, nil
}

func (s *ListingService) Delete(id uint, hostID uint) error {
	res := s.DB.Where("id = ? AND host_id = ?", id, hostID).Delete(&models.Listing{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}
