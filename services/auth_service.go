// services/auth_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"yardly-backend/models"
	"yardly-backend/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserNotFound       = errors.New("user_not_found")
)

// OAuthConfig holds the hosted identity provider endpoints. Everything is
// read from env once at construction; no hidden globals.
type OAuthConfig struct {
	Provider     string
	AuthURL      string
	TokenURL     string
	UserinfoURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func OAuthConfigFromEnv() OAuthConfig {
	return OAuthConfig{
		Provider:     utils.EnvOrDefault("OAUTH_PROVIDER", "google"),
		AuthURL:      utils.EnvOrDefault("OAUTH_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
		TokenURL:     utils.EnvOrDefault("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		UserinfoURL:  utils.EnvOrDefault("OAUTH_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo"),
		ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		RedirectURL:  utils.EnvOrDefault("OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
	}
}

type AuthService struct {
	DB        *gorm.DB
	Config    OAuthConfig
	JWTSecret []byte
	Client    *http.Client
}

func NewAuthService(db *gorm.DB, cfg OAuthConfig, jwtSecret string) *AuthService {
	return &AuthService{
		DB:        db,
		Config:    cfg,
		JWTSecret: []byte(jwtSecret),
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// LoginURL builds the provider redirect carrying a caller-supplied state.
func (s *AuthService) LoginURL(state string) string {
	q := url.Values{}
	q.Set("client_id", s.Config.ClientID)
	q.Set("redirect_uri", s.Config.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return s.Config.AuthURL + "?" + q.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type userinfoResponse struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (s *AuthService) exchangeCode(code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", s.Config.ClientID)
	form.Set("client_secret", s.Config.ClientSecret)
	form.Set("redirect_uri", s.Config.RedirectURL)

	resp, err := s.Client.PostForm(s.Config.TokenURL, form)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tr tokenResponse
	if err := json.Unmarshal(bodyBytes, &tr); err != nil {
		return "", fmt.Errorf("JSON parse error: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token: %s", string(bodyBytes))
	}
	return tr.AccessToken, nil
}

func (s *AuthService) fetchUserinfo(accessToken string) (userinfoResponse, error) {
	var ui userinfoResponse

	req, err := http.NewRequest(http.MethodGet, s.Config.UserinfoURL, nil)
	if err != nil {
		return ui, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.Client.Do(req)
	if err != nil {
		return ui, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ui, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}
	if err := json.Unmarshal(bodyBytes, &ui); err != nil {
		return ui, fmt.Errorf("JSON parse error: %w", err)
	}
	if ui.Sub == "" {
		return ui, fmt.Errorf("userinfo missing subject: %s", string(bodyBytes))
	}
	return ui, nil
}

func (s *AuthService) upsertUser(ui userinfoResponse) (*models.User, error) {
	var user models.User
	err := s.DB.Where("provider = ? AND provider_id = ?", s.Config.Provider, ui.Sub).
		First(&user).Error
	if err == nil {
		updates := map[string]interface{}{
			"display_name": ui.Name,
			"email":        ui.Email,
			"avatar_url":   ui.Picture,
		}
		if uerr := s.DB.Model(&user).Updates(updates).Error; uerr != nil {
			return nil, fmt.Errorf("failed to update user: %w", uerr)
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = models.User{
		Provider:    s.Config.Provider,
		ProviderID:  ui.Sub,
		DisplayName: ui.Name,
		Email:       ui.Email,
		AvatarURL:   ui.Picture,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		// Two callbacks for the same subject can race on the unique
		// (provider, provider_id) index; the loser reuses the winner's row.
		if IsDuplicateEntry(err) {
			var existing models.User
			if ferr := s.DB.Where("provider = ? AND provider_id = ?", s.Config.Provider, ui.Sub).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// HandleCallback completes the OAuth redirect: code → token → userinfo →
// local user → session JWT.
func (s *AuthService) HandleCallback(code string) (*models.User, string, error) {
	accessToken, err := s.exchangeCode(code)
	if err != nil {
		return nil, "", err
	}
	ui, err := s.fetchUserinfo(accessToken)
	if err != nil {
		return nil, "", err
	}
	user, err := s.upsertUser(ui)
	if err != nil {
		return nil, "", err
	}
	token, err := s.MintSession(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// PasswordLogin authenticates the seeded demo host.
func (s *AuthService) PasswordLogin(email, password string) (*models.User, string, error) {
	var user models.User
	err := s.DB.Where("email = ? AND password_hash <> ''", strings.TrimSpace(email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.MintSession(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// MintSession issues the HS256 session token carried as a bearer header.
func (s *AuthService) MintSession(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"name": user.DisplayName,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &user, nil
}
