package services

import (
	"errors"
	"fmt"

	"yardly-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteService struct {
	DB *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{DB: db}
}

// Toggle flips (userID, listingID) membership and reports the resulting
// state. The insert is guarded by the composite unique index so two racing
// toggles cannot leave a duplicate row.
func (s *FavoriteService) Toggle(userID, listingID uint) (bool, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrListingNotFound
		}
		return false, fmt.Errorf("failed to check listing %d: %w", listingID, err)
	}

	res := s.DB.Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	fav := models.Favorite{UserID: userID, ListingID: listingID}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

// ListForUser returns the user's favorites, newest first, with listings
// preloaded.
func (s *FavoriteService) ListForUser(userID uint) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := s.DB.Preload("Listing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return favs, nil
}
