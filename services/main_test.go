package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"yardly-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
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
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func testListing(hostID uint, name, city, capacity string, price float64, amenities ...string) models.Listing {
	l := models.Listing{
		HostID:       hostID,
		Name:         name,
		City:         city,
		Capacity:     capacity,
		PricePerHour: price,
	}
	if len(amenities) > 0 {
		raw := "["
		for i, a := range amenities {
			if i > 0 {
				raw += ","
			}
			raw += fmt.Sprintf("%q", a)
		}
		raw += "]"
		l.Amenities = []byte(raw)
	}
	return l
}
