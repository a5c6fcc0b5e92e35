package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"yardly-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "yardly_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func amenityJSON(amenities ...string) datatypes.JSON {
	parts := make([]string, 0, len(amenities))
	for _, a := range amenities {
		parts = append(parts, fmt.Sprintf("%q", a))
	}
	return datatypes.JSON([]byte("[" + strings.Join(parts, ",") + "]"))
}

// SeedDatabase creates a demo host and a handful of listings so a fresh
// install has something to search. No-op when data already exists.
func SeedDatabase() {
	var userCount int64
	DB.Model(&models.User{}).Count(&userCount)

	var host models.User
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("DEMO_HOST_PASSWORD", "yardly123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash demo host password: %v", err)
			return
		}
		host = models.User{
			Provider:     "local",
			ProviderID:   "demo-host",
			DisplayName:  "Demo Host",
			Email:        "host@yardly.local",
			PasswordHash: string(hash),
		}
		if err := DB.Create(&host).Error; err != nil {
			log.Printf("warning: failed to create demo host: %v", err)
			return
		}
		log.Println("Demo host seeded")
	} else {
		if err := DB.Where("provider = ? AND provider_id = ?", "local", "demo-host").First(&host).Error; err != nil {
			return
		}
	}

	var listingCount int64
	DB.Model(&models.Listing{}).Count(&listingCount)
	if listingCount > 0 {
		return
	}

	listings := []models.Listing{
		{
			HostID:       host.ID,
			Name:         "Sunny Garden Oasis",
			Description:  "Lush backyard with a covered patio, perfect for birthday parties.",
			PricePerHour: 45,
			City:         "Santa Monica",
			Lat:          34.0195, Lng: -118.4912,
			Capacity:  models.CapacityUpTo15,
			Amenities: amenityJSON("Pool", "BBQ Grill", "WiFi"),
		},
		{
			HostID:       host.ID,
			Name:         "Downtown Rooftop Yard",
			Description:  "Turfed rooftop with string lights and skyline views.",
			PricePerHour: 120,
			City:         "Austin",
			Lat:          30.2672, Lng: -97.7431,
			Capacity:  models.CapacityUpTo25,
			Amenities: amenityJSON("String Lights", "WiFi", "Restroom"),
		},
		{
			HostID:       host.ID,
			Name:         "Cozy Courtyard",
			Description:  "Quiet brick courtyard with a fire pit.",
			PricePerHour: 30,
			City:         "Portland",
			Lat:          45.5152, Lng: -122.6784,
			Capacity:  models.CapacityUpTo10,
			Amenities: amenityJSON("Fire Pit", "Seating"),
		},
		{
			HostID:       host.ID,
			Name:         "Lakeside Event Lawn",
			Description:  "Half an acre of open lawn on the water, tents welcome.",
			PricePerHour: 250,
			City:         "Lake Tahoe",
			Lat:          39.0968, Lng: -120.0324,
			Capacity:  models.CapacityUpTo50,
			Amenities: amenityJSON("Parking", "Restroom", "Power Outlets", "BBQ Grill"),
		},
	}
	if err := DB.Create(&listings).Error; err != nil {
		log.Printf("warning: failed to seed listings: %v", err)
		return
	}
	log.Println("Sample listings seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Favorite{},
		&models.CalendarEvent{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
