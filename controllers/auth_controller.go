package controllers

import (
	"log"
	"net/http"
	"strings"

	"yardly-backend/middleware"
	"yardly-backend/services"
	"yardly-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type PasswordLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ----------------------------------------------------
// 1. Login Redirect (GET /api/auth/login)
// ----------------------------------------------------

func (ac *AuthController) Login(c *gin.Context) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		log.Printf("failed to generate oauth state: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to start login")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"url":   ac.Auth.LoginURL(state),
		"state": state,
	})
}

// ----------------------------------------------------
// 2. OAuth Callback (GET /api/auth/callback)
// ----------------------------------------------------

func (ac *AuthController) Callback(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing code")
		return
	}

	user, token, err := ac.Auth.HandleCallback(code)
	if err != nil {
		log.Printf("oauth callback failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "sign-in failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// ----------------------------------------------------
// 3. Password Login (POST /api/auth/password)
// ----------------------------------------------------

func (ac *AuthController) PasswordLogin(c *gin.Context) {
	var req PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, token, err := ac.Auth.PasswordLogin(req.Email, req.Password)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("password login failed: %v", err)
			utils.JSONError(c, status, "sign-in failed")
			return
		}
		utils.JSONError(c, status, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// ----------------------------------------------------
// 4. Current User (GET /api/auth/me)
// ----------------------------------------------------

func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Auth.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		utils.JSONError(c, statusForError(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
