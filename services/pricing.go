package services

import (
	"errors"
	"math"
	"time"
)

// ServiceFeeRate is the marketplace surcharge applied on top of the rental
// subtotal.
const ServiceFeeRate = 0.10

var ErrInvalidDuration = errors.New("invalid_duration")

// PriceQuote is the cost breakdown for one booking span. Amounts stay
// unrounded floats; TotalCents rounds once, at the payment boundary.
type PriceQuote struct {
	Hours      int     `json:"hours"`
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"serviceFee"`
	Total      float64 `json:"total"`
}

// QuoteBooking prices a stay of ceil(checkOut-checkIn) hours at ratePerHour.
// Spans of zero or negative length are rejected.
func QuoteBooking(ratePerHour float64, checkIn, checkOut time.Time) (PriceQuote, error) {
	if ratePerHour <= 0 {
		return PriceQuote{}, errors.New("invalid_rate")
	}

	hours := int(math.Ceil(checkOut.Sub(checkIn).Hours()))
	if hours <= 0 {
		return PriceQuote{}, ErrInvalidDuration
	}

	subtotal := ratePerHour * float64(hours)
	fee := subtotal * ServiceFeeRate

	return PriceQuote{
		Hours:      hours,
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal + fee,
	}, nil
}

// TotalCents converts the total to minor currency units for the payment
// processor.
func (q PriceQuote) TotalCents() int64 {
	return int64(math.Round(q.Total * 100))
}
