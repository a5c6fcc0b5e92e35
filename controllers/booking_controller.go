// controllers/booking_controller.go
package controllers

import (
	"log"
	"net/http"

	"yardly-backend/middleware"
	"yardly-backend/services"
	"yardly-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

type CreateCheckoutRequest struct {
	ListingID  uint   `json:"listing_id" binding:"required"`
	GuestName  string `json:"guest_name" binding:"required"`
	GuestCount int    `json:"guest_count" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
}

type ConfirmCheckoutRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// ----------------------------------------------------
// 1. Create Checkout Session (POST /api/checkout)
// ----------------------------------------------------

func (bc *BookingController) CreateCheckout(c *gin.Context) {
	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("checkout bind error: %v", err)
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := bc.Bookings.CreateCheckout(req.ListingID, req.GuestName, req.GuestCount, req.CheckIn, req.CheckOut)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("create checkout failed: %v", err)
			utils.JSONError(c, status, "failed to create checkout session")
			return
		}
		utils.JSONError(c, status, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, result)
}

// ----------------------------------------------------
// 2. Confirm Payment (POST /api/checkout/confirm)
// ----------------------------------------------------

func (bc *BookingController) ConfirmCheckout(c *gin.Context) {
	var req ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking, err := bc.Bookings.ConfirmPayment(req.SessionID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("confirm checkout failed: %v", err)
			utils.JSONError(c, status, "failed to confirm payment")
			return
		}
		utils.JSONError(c, status, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ----------------------------------------------------
// 3. Host Bookings (GET /api/bookings)
// ----------------------------------------------------

func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.Bookings.ListForHost(middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("list bookings failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}
