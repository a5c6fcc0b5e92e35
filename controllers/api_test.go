package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"yardly-backend/controllers"
	"yardly-backend/models"
	"yardly-backend/routes"
	"yardly-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testServer wires the real router against an in-memory sqlite DB, a fake
// payment processor and a fake geocoder.
func testServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Favorite{},
		&models.CalendarEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	processor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":     "cs_test_1",
			"url":    "https://pay.example.com/cs_test_1",
			"status": "paid",
		})
	}))
	t.Cleanup(processor.Close)

	// Every known place resolves to the same Santa Monica point; "Nowhere"
	// yields no features.
	maps := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		features := []map[string]interface{}{
			{"center": []float64{-118.4912, 34.0195}},
		}
		if r.URL.Query().Get("q") == "Nowhere" {
			features = nil
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"features": features})
	}))
	t.Cleanup(maps.Close)

	payments := services.NewPaymentService(processor.URL, "test-key")
	geocoder := services.NewGeocodeService(maps.URL, "test-key")

	router := routes.SetupRouter(
		controllers.NewListingController(services.NewListingService(db), geocoder),
		controllers.NewBookingController(services.NewBookingService(db, payments)),
		controllers.NewFavoriteController(services.NewFavoriteService(db)),
		controllers.NewCalendarController(services.NewCalendarService(db)),
		controllers.NewAuthController(services.NewAuthService(db, services.OAuthConfig{}, "test-secret")),
	)
	return router, db
}

func bearerToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func apiRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedListing(t *testing.T, db *gorm.DB, hostID uint, name, city, capacity string, price float64) models.Listing {
	t.Helper()
	listing := models.Listing{
		HostID:       hostID,
		Name:         name,
		City:         city,
		Capacity:     capacity,
		PricePerHour: price,
		Amenities:    []byte(`["WiFi"]`),
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return listing
}

func TestHealth(t *testing.T) {
	router, _ := testServer(t)
	w := apiRequest(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestSearchListingsEndpoint(t *testing.T) {
	router, db := testServer(t)
	seedListing(t, db, 1, "Sunny Garden Oasis", "Santa Monica", models.CapacityUpTo15, 45)
	seedListing(t, db, 1, "Cozy Courtyard", "Portland", models.CapacityUpTo10, 30)

	w := apiRequest(t, router, http.MethodGet, "/api/listings?city=santa&guests=12", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    []models.Listing `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Sunny Garden Oasis" {
		t.Fatalf("data = %+v, want only the Santa Monica listing", resp.Data)
	}
}

func TestGetListingEndpoint(t *testing.T) {
	router, db := testServer(t)
	listing := seedListing(t, db, 1, "Cozy Courtyard", "Portland", models.CapacityUpTo10, 30)

	w := apiRequest(t, router, http.MethodGet, "/api/listings/"+itoa(listing.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = apiRequest(t, router, http.MethodGet, "/api/listings/9999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing listing status = %d, want 404", w.Code)
	}
}

func TestCreateListingEndpoint(t *testing.T) {
	router, db := testServer(t)
	token := bearerToken(t, "7")

	w := apiRequest(t, router, http.MethodPost, "/api/listings", token, map[string]interface{}{
		"name":         "Sunny Garden Oasis",
		"city":         "Santa Monica",
		"capacity":     models.CapacityUpTo15,
		"pricePerHour": 45,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s), want 201", w.Code, w.Body.String())
	}

	var listing models.Listing
	if err := db.Order("id DESC").First(&listing).Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	if listing.HostID != 7 {
		t.Errorf("host = %d, want the authenticated user", listing.HostID)
	}
	if listing.Lat != 34.0195 || listing.Lng != -118.4912 {
		t.Errorf("coordinates = (%v, %v), want the geocoded city point", listing.Lat, listing.Lng)
	}
}

func TestCreateListingSurvivesGeocodeMiss(t *testing.T) {
	router, db := testServer(t)
	token := bearerToken(t, "7")

	w := apiRequest(t, router, http.MethodPost, "/api/listings", token, map[string]interface{}{
		"name":         "Hidden Meadow",
		"city":         "Nowhere",
		"capacity":     models.CapacityUpTo10,
		"pricePerHour": 25,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s), want 201 even when geocoding finds nothing", w.Code, w.Body.String())
	}

	var listing models.Listing
	if err := db.Order("id DESC").First(&listing).Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	if listing.Lat != 0 || listing.Lng != 0 {
		t.Errorf("coordinates = (%v, %v), want (0, 0)", listing.Lat, listing.Lng)
	}
}

func TestCreateListingKeepsSuppliedCoordinates(t *testing.T) {
	router, db := testServer(t)
	token := bearerToken(t, "7")

	w := apiRequest(t, router, http.MethodPost, "/api/listings", token, map[string]interface{}{
		"name":         "Cozy Courtyard",
		"city":         "Portland",
		"capacity":     models.CapacityUpTo10,
		"pricePerHour": 30,
		"lat":          45.5152,
		"lng":          -122.6784,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s), want 201", w.Code, w.Body.String())
	}

	var listing models.Listing
	if err := db.Order("id DESC").First(&listing).Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	if listing.Lat != 45.5152 || listing.Lng != -122.6784 {
		t.Errorf("coordinates = (%v, %v), want the host-supplied point untouched", listing.Lat, listing.Lng)
	}
}

func TestCheckoutEndpoints(t *testing.T) {
	router, db := testServer(t)
	listing := seedListing(t, db, 1, "Sunny Garden Oasis", "Santa Monica", models.CapacityUpTo15, 50)

	w := apiRequest(t, router, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"listing_id":  listing.ID,
		"guest_name":  "Ana",
		"guest_count": 12,
		"check_in":    "2024-01-01T10:00",
		"check_out":   "2024-01-01T14:00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d (%s), want 201", w.Code, w.Body.String())
	}

	w = apiRequest(t, router, http.MethodPost, "/api/checkout/confirm", "", map[string]interface{}{
		"session_id": "cs_test_1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d (%s), want 200", w.Code, w.Body.String())
	}

	var booking models.Booking
	if err := db.First(&booking).Error; err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if booking.Status != models.BookingStatusConfirmed {
		t.Errorf("booking status = %q, want confirmed", booking.Status)
	}

	// Invalid span surfaces as 400.
	w = apiRequest(t, router, http.MethodPost, "/api/checkout", "", map[string]interface{}{
		"listing_id":  listing.ID,
		"guest_name":  "Ana",
		"guest_count": 12,
		"check_in":    "2024-01-01T14:00",
		"check_out":   "2024-01-01T10:00",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("inverted span status = %d, want 400", w.Code)
	}
}

func TestFavoritesRequireAuth(t *testing.T) {
	router, db := testServer(t)
	listing := seedListing(t, db, 1, "Cozy Courtyard", "Portland", models.CapacityUpTo10, 30)

	body := map[string]interface{}{"listing_id": listing.ID}

	w := apiRequest(t, router, http.MethodPost, "/api/favorites/toggle", "", body)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated toggle status = %d, want 401", w.Code)
	}

	token := bearerToken(t, "7")
	w = apiRequest(t, router, http.MethodPost, "/api/favorites/toggle", token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d (%s), want 200", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Favorited bool `json:"favorited"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Favorited {
		t.Error("first toggle should favorite")
	}

	w = apiRequest(t, router, http.MethodPost, "/api/favorites/toggle", token, body)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Favorited {
		t.Error("second toggle should unfavorite")
	}
}

func TestCalendarSyncEndpoint(t *testing.T) {
	router, db := testServer(t)
	listing := seedListing(t, db, 7, "Sunny Garden Oasis", "Santa Monica", models.CapacityUpTo15, 50)
	booking := models.Booking{
		ListingID:     listing.ID,
		ReferenceCode: "ref-1",
		Status:        models.BookingStatusConfirmed,
		GuestName:     "Ana",
		GuestCount:    8,
		CheckIn:       time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, 7, 4, 16, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	token := bearerToken(t, "7")
	w := apiRequest(t, router, http.MethodPost, "/api/calendar/sync", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sync status = %d (%s), want 200", w.Code, w.Body.String())
	}

	var resp struct {
		Data services.SyncResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.EventsAdded != 1 {
		t.Errorf("events added = %d, want 1", resp.Data.EventsAdded)
	}
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
