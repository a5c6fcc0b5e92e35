package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"yardly-backend/controllers"
	"yardly-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	lc *controllers.ListingController,
	bc *controllers.BookingController,
	fc *controllers.FavoriteController,
	cc *controllers.CalendarController,
	ac *controllers.AuthController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		listings := api.Group("/listings")
		{
			listings.GET("", lc.SearchListings)
			listings.GET("/:id", lc.GetListing)
			listings.POST("", middleware.RequireAuth(), lc.CreateListing)
			listings.PATCH("/:id", middleware.RequireAuth(), lc.UpdateListing)
			listings.DELETE("/:id", middleware.RequireAuth(), lc.DeleteListing)
		}

		checkout := api.Group("/checkout")
		{
			checkout.POST("", bc.CreateCheckout)
			checkout.POST("/confirm", bc.ConfirmCheckout)
		}

		api.GET("/bookings", middleware.RequireAuth(), bc.GetBookings)

		favorites := api.Group("/favorites", middleware.RequireAuth())
		{
			favorites.POST("/toggle", fc.ToggleFavorite)
			favorites.GET("", fc.GetFavorites)
		}

		calendar := api.Group("/calendar", middleware.RequireAuth())
		{
			calendar.POST("/sync", cc.SyncCalendar)
			calendar.GET("", cc.GetCalendar)
		}

		auth := api.Group("/auth")
		{
			auth.GET("/login", ac.Login)
			auth.GET("/callback", ac.Callback)
			auth.POST("/password", ac.PasswordLogin)
			auth.GET("/me", middleware.RequireAuth(), ac.Me)
		}
	}

	return r
}
