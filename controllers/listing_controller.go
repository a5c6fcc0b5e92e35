package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"yardly-backend/middleware"
	"yardly-backend/models"
	"yardly-backend/services"
	"yardly-backend/utils"

	"github.com/gin-gonic/gin"
)

type ListingController struct {
	Listings *services.ListingService
	Geocoder *services.GeocodeService
}

func NewListingController(listings *services.ListingService, geocoder *services.GeocodeService) *ListingController {
	return &ListingController{Listings: listings, Geocoder: geocoder}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// ----------------------------------------------------
// 1. Search Listings (GET /api/listings)
// ----------------------------------------------------

func (lc *ListingController) SearchListings(c *gin.Context) {
	var criteria services.SearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	// Amenities arrive either repeated (?amenities=a&amenities=b) or as one
	// comma-separated value.
	if len(criteria.Amenities) == 1 && strings.Contains(criteria.Amenities[0], ",") {
		criteria.Amenities = strings.Split(criteria.Amenities[0], ",")
	}

	listings, err := lc.Listings.Search(criteria)
	if err != nil {
		log.Printf("search listings failed: %v", err)
		utils.JSONError(c, statusForError(err), "failed to search listings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

// ----------------------------------------------------
// 2. Get Listing (GET /api/listings/:id)
// ----------------------------------------------------

func (lc *ListingController) GetListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	listing, err := lc.Listings.GetByID(id)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listing)
}

// ----------------------------------------------------
// 3. Create Listing (POST /api/listings)
// ----------------------------------------------------

func (lc *ListingController) CreateListing(c *gin.Context) {
	var listing models.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		log.Printf("listing bind error: %v", err)
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	listing.Name = strings.TrimSpace(listing.Name)
	if listing.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "name is required")
		return
	}
	if listing.PricePerHour <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "pricePerHour must be positive")
		return
	}
	if !models.ValidCapacity(listing.Capacity) {
		utils.JSONError(c, http.StatusBadRequest, "unknown capacity tier")
		return
	}

	listing.HostID = middleware.CurrentUserID(c)

	// Fill missing coordinates from the city; a geocoder outage is not
	// worth failing listing creation over.
	if listing.Lat == 0 && listing.Lng == 0 && strings.TrimSpace(listing.City) != "" {
		if lat, lng, err := lc.Geocoder.Forward(listing.City); err == nil {
			listing.Lat, listing.Lng = lat, lng
		} else {
			log.Printf("warning: geocoding %q failed: %v", listing.City, err)
		}
	}

	if err := lc.Listings.Create(&listing); err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, listing)
}

// ----------------------------------------------------
// 4. Update Listing (PATCH /api/listings/:id)
// ----------------------------------------------------

func (lc *ListingController) UpdateListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	listing, err := lc.Listings.Update(id, middleware.CurrentUserID(c), fields)
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listing)
}

// ----------------------------------------------------
// 5. Delete Listing (DELETE /api/listings/:id)
// ----------------------------------------------------

func (lc *ListingController) DeleteListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := lc.Listings.Delete(id, middleware.CurrentUserID(c)); err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
