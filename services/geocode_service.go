// services/geocode_service.go
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

	"yardly-backend/utils"
)

var ErrNoGeocodeResult = errors.New("no_geocode_result")

// GeocodeService does forward geocoding against the hosted mapping API.
// Read-only; used when a host creates or corrects a listing without
// coordinates.
type GeocodeService struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewGeocodeService(endpoint, apiKey string) *GeocodeService {
	return &GeocodeService{
		Endpoint: strings.TrimRight(endpoint, "/"),
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func NewGeocodeServiceFromEnv() *GeocodeService {
	return NewGeocodeService(
		utils.EnvOrDefault("GEOCODE_ENDPOINT", "https://api.maps.example.com/geocode/v1"),
		os.Getenv("GEOCODE_API_KEY"),
	)
}

type geocodeFeature struct {
	Center [2]float64 `json:"center"` // lng, lat
}

type geocodeResponse struct {
	Features []geocodeFeature `json:"features"`
}

// Forward resolves a free-text place (typically the listing's city) to
// coordinates. Takes the first match, the way the map UI does.
func (s *GeocodeService) Forward(query string) (lat, lng float64, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, 0, errors.New("validation: empty geocode query")
	}

	u := fmt.Sprintf("%s/forward?q=%s&access_token=%s", s.Endpoint, url.QueryEscape(query), url.QueryEscape(s.APIKey))
	resp, err := s.Client.Get(u)
	if err != nil {
		return 0, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, 0, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var gr geocodeResponse
	if err := json.Unmarshal(bodyBytes, &gr); err != nil {
		return 0, 0, fmt.Errorf("JSON parse error: %w", err)
	}
	if len(gr.Features) == 0 {
		return 0, 0, ErrNoGeocodeResult
	}
	return gr.Features[0].Center[1], gr.Features[0].Center[0], nil
}
