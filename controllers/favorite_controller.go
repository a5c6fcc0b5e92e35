package controllers

import (
	"log"
	"net/http"

	"yardly-backend/middleware"
	"yardly-backend/services"
	"yardly-backend/utils"

	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	Favorites *services.FavoriteService
}

func NewFavoriteController(favorites *services.FavoriteService) *FavoriteController {
	return &FavoriteController{Favorites: favorites}
}

type ToggleFavoriteRequest struct {
	ListingID uint `json:"listing_id" binding:"required"`
}

// ----------------------------------------------------
// 1. Toggle Favorite (POST /api/favorites/toggle)
// ----------------------------------------------------

func (fc *FavoriteController) ToggleFavorite(c *gin.Context) {
	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	favorited, err := fc.Favorites.Toggle(middleware.CurrentUserID(c), req.ListingID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("toggle favorite failed: %v", err)
			utils.JSONError(c, status, "failed to toggle favorite")
			return
		}
		utils.JSONError(c, status, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"listingId": req.ListingID, "favorited": favorited})
}

// ----------------------------------------------------
// 2. List Favorites (GET /api/favorites)
// ----------------------------------------------------

func (fc *FavoriteController) GetFavorites(c *gin.Context) {
	favs, err := fc.Favorites.ListForUser(middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("list favorites failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load favorites")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, favs)
}
