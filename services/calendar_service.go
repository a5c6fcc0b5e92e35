// services/calendar_service.go
package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"yardly-backend/models"

	"gorm.io/gorm"
)

// BookingIDPrefix is the literal that precedes the booking identifier inside
// an event description. Events written before the booking_id column existed
// are deduplicated by scanning for it.
const BookingIDPrefix = "Booking ID: "

// SyncResult reports one calendar sync run. Added can be lower than Checked
// minus the duplicates when individual inserts fail; the sync never aborts
// on a single bad event.
type SyncResult struct {
	BookingsChecked int `json:"bookingsChecked"`
	EventsAdded     int `json:"eventsAdded"`
}

type CalendarService struct {
	DB *gorm.DB
}

func NewCalendarService(db *gorm.DB) *CalendarService {
	return &CalendarService{DB: db}
}

// bookingIDFromDescription extracts the identifier following BookingIDPrefix,
// or 0 when the description carries none.
func bookingIDFromDescription(desc string) uint {
	idx := strings.Index(desc, BookingIDPrefix)
	if idx < 0 {
		return 0
	}
	rest := desc[idx+len(BookingIDPrefix):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseUint(rest[:end], 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func eventTitle(listingName string) string {
	return fmt.Sprintf("Yardly booking: %s", listingName)
}

func eventDescription(b *models.Booking) string {
	return fmt.Sprintf("%s%d\nGuest: %s (%d guests)", BookingIDPrefix, b.ID, b.GuestName, b.GuestCount)
}

// Sync inserts a calendar event for every confirmed booking of the host's
// listings that is not already on the calendar. Best-effort and
// non-transactional: concurrent syncs can race, and a failed insert only
// lowers the reported count.
func (s *CalendarService) Sync(hostID uint) (SyncResult, error) {
	var result SyncResult

	var listingIDs []uint
	if err := s.DB.Model(&models.Listing{}).
		Where("host_id = ?", hostID).
		Pluck("id", &listingIDs).Error; err != nil {
		return result, fmt.Errorf("failed to load host listings: %w", err)
	}
	if len(listingIDs) == 0 {
		return result, nil
	}

	var bookings []models.Booking
	if err := s.DB.Preload("Listing").
		Where("listing_id IN ? AND status = ?", listingIDs, models.BookingStatusConfirmed).
		Order("id ASC").
		Find(&bookings).Error; err != nil {
		return result, fmt.Errorf("failed to load confirmed bookings: %w", err)
	}

	var events []models.CalendarEvent
	if err := s.DB.Where("host_id = ?", hostID).Find(&events).Error; err != nil {
		return result, fmt.Errorf("failed to load calendar events: %w", err)
	}

	known := make(map[uint]bool)
	for i := range events {
		if events[i].BookingID != nil {
			known[*events[i].BookingID] = true
		}
		if id := bookingIDFromDescription(events[i].Description); id != 0 {
			known[id] = true
		}
	}

	for i := range bookings {
		b := &bookings[i]
		result.BookingsChecked++
		if known[b.ID] {
			continue
		}

		bookingID := b.ID
		event := models.CalendarEvent{
			HostID:      hostID,
			ListingID:   b.ListingID,
			BookingID:   &bookingID,
			Title:       eventTitle(b.Listing.Name),
			Description: eventDescription(b),
			StartTime:   b.CheckIn,
			EndTime:     b.CheckOut,
		}
		if err := s.DB.Create(&event).Error; err != nil {
			log.Printf("warning: failed to insert calendar event for booking %d: %v", b.ID, err)
			continue
		}
		known[b.ID] = true
		result.EventsAdded++
	}

	return result, nil
}

// ListForHost returns the host's calendar, soonest event first.
func (s *CalendarService) ListForHost(hostID uint) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := s.DB.Where("host_id = ?", hostID).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar events: %w", err)
	}
	return events, nil
}
