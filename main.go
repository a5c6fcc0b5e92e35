package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"yardly-backend/config"
	"yardly-backend/controllers"
	"yardly-backend/routes"
	"yardly-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	// Required keys (fatal if missing: nothing works without payments or sessions)
	if os.Getenv("PAYMENTS_API_KEY") == "" {
		log.Fatal("❌ ERROR: PAYMENTS_API_KEY environment variable is not set. Cannot initialize payment service.")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("❌ ERROR: JWT_SECRET environment variable is not set. Cannot issue sessions.")
	}

	// Connect database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Initialize services
	paymentService := services.NewPaymentServiceFromEnv()
	geocodeService := services.NewGeocodeServiceFromEnv()
	listingService := services.NewListingService(db)
	bookingService := services.NewBookingService(db, paymentService)
	favoriteService := services.NewFavoriteService(db)
	calendarService := services.NewCalendarService(db)
	authService := services.NewAuthService(db, services.OAuthConfigFromEnv(), os.Getenv("JWT_SECRET"))

	// Initialize controllers
	listingController := controllers.NewListingController(listingService, geocodeService)
	bookingController := controllers.NewBookingController(bookingService)
	favoriteController := controllers.NewFavoriteController(favoriteService)
	calendarController := controllers.NewCalendarController(calendarService)
	authController := controllers.NewAuthController(authService)

	// Build router
	router := routes.SetupRouter(listingController, bookingController, favoriteController, calendarController, authController)

	// Port from env (prefer), fallback to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
