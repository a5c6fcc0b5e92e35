// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"yardly-backend/models"
	"yardly-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking_not_found")

// BookingService creates pending bookings, hands the guest to the hosted
// checkout, and confirms them once the processor reports payment.
type BookingService struct {
	DB       *gorm.DB
	Payments *PaymentService
}

func NewBookingService(db *gorm.DB, payments *PaymentService) *BookingService {
	return &BookingService{DB: db, Payments: payments}
}

var bookingTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
}

func parseBookingTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range bookingTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("validation: invalid time %q", raw)
}

// CheckoutResult is what the frontend needs to continue: where to send the
// guest, and the pending booking it will confirm afterwards.
type CheckoutResult struct {
	Booking     models.Booking `json:"booking"`
	Quote       PriceQuote     `json:"quote"`
	CheckoutURL string         `json:"checkoutUrl"`
}

// CreateCheckout validates the request, quotes the price, stores a pending
// booking and opens a checkout session for it. The booking is not rolled
// back if the client abandons the redirect; it simply stays pending.
func (s *BookingService) CreateCheckout(listingID uint, guestName string, guestCount int, checkIn, checkOut string) (*CheckoutResult, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, errors.New("validation: guest name is required")
	}
	if guestCount <= 0 {
		return nil, errors.New("validation: guest count must be positive")
	}

	ci, err := parseBookingTime(checkIn)
	if err != nil {
		return nil, err
	}
	co, err := parseBookingTime(checkOut)
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := s.DB.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("db error checking listing %d: %w", listingID, err)
	}

	if max := models.MaxGuestsForCapacity(listing.Capacity); guestCount > max {
		return nil, fmt.Errorf("validation: %d guests exceeds listing capacity (%s)", guestCount, listing.Capacity)
	}

	quote, err := QuoteBooking(listing.PricePerHour, ci, co)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		ListingID:     listing.ID,
		ReferenceCode: uuid.NewString(),
		Status:        models.BookingStatusPending,
		GuestName:     guestName,
		GuestCount:    guestCount,
		CheckIn:       ci,
		CheckOut:      co,
		AmountCents:   quote.TotalCents(),
	}
	if err := s.DB.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	frontend := strings.TrimRight(utils.EnvOrDefault("FRONTEND_URL", "http://localhost:3000"), "/")
	description := fmt.Sprintf("%s - %d hour(s) at $%.2f/hr", listing.Name, quote.Hours, listing.PricePerHour)
	session, err := s.Payments.CreateCheckoutSession(
		description,
		booking.AmountCents,
		fmt.Sprintf("%s/bookings/%s/success", frontend, booking.ReferenceCode),
		fmt.Sprintf("%s/listings/%d", frontend, listing.ID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.DB.Model(&booking).
		Update("checkout_session_id", session.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store session id: %w", err)
	}
	booking.CheckoutSessionID = session.ID
	booking.Listing = listing

	return &CheckoutResult{Booking: booking, Quote: quote, CheckoutURL: session.URL}, nil
}

// ConfirmPayment verifies the session with the processor and flips the
// booking to confirmed. Idempotent: confirming a confirmed booking is a
// no-op.
func (s *BookingService) ConfirmPayment(sessionID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("Listing").
		Where("checkout_session_id = ?", sessionID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}

	if booking.Status == models.BookingStatusConfirmed {
		return &booking, nil
	}

	if err := s.Payments.VerifySession(sessionID); err != nil {
		return nil, err
	}

	if err := s.DB.Model(&booking).
		Update("status", models.BookingStatusConfirmed).Error; err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	booking.Status = models.BookingStatusConfirmed
	return &booking, nil
}

// ListForHost returns confirmed bookings across the host's listings, newest
// check-in first.
func (s *BookingService) ListForHost(hostID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.Preload("Listing").
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("listings.host_id = ? AND bookings.status = ?", hostID, models.BookingStatusConfirmed).
		Order("bookings.check_in DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return bookings, nil
}
