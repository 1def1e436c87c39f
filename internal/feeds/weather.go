// Package feeds wraps external data lookups behind tagged result types, so
// the grid core never sees a raw payload, an error, or a stalled request.
// Every fetch is fire-and-forget: results arrive through a callback and a
// failure degrades one zone's badge, never the grid.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Status tags a Result.
type Status int

const (
	// StatusLoading means no fetch has completed yet.
	StatusLoading Status = iota
	// StatusReady means Report is valid.
	StatusReady
	// StatusFailed means the last fetch failed; Reason says why.
	StatusFailed
)

// Report is the weather payload the dashboard renders next to a zone.
type Report struct {
	TempC     float64
	WindKPH   float64
	Code      int
	Summary   string
	FetchedAt time.Time
}

// Result is the tagged boundary type: Loading, Ready(Report), or
// Failed(Reason). The zero value is Loading.
type Result struct {
	Status Status
	Report Report
	Reason string
}

// Ready wraps a successful report.
func Ready(r Report) Result { return Result{Status: StatusReady, Report: r} }

// Failed wraps a failure reason.
func Failed(reason string) Result { return Result{Status: StatusFailed, Reason: reason} }

// Provider fetches current conditions for a coordinate pair.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (Report, error)
}

// OpenMeteo is a Provider backed by the open-meteo current-weather API.
type OpenMeteo struct {
	Endpoint string
	Client   *http.Client
}

// NewOpenMeteo creates a provider against the given endpoint with a bounded
// request timeout.
func NewOpenMeteo(endpoint string) *OpenMeteo {
	return &OpenMeteo{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// openMeteoResponse mirrors the slice of the API response we consume.
type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current fetches current conditions for one coordinate pair.
func (p *OpenMeteo) Current(ctx context.Context, lat, lon float64) (Report, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("weather: build request: %w", err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("weather: unexpected status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, fmt.Errorf("weather: decode response: %w", err)
	}
	return Report{
		TempC:     body.CurrentWeather.Temperature,
		WindKPH:   body.CurrentWeather.WindSpeed,
		Code:      body.CurrentWeather.WeatherCode,
		Summary:   summaryForCode(body.CurrentWeather.WeatherCode),
		FetchedAt: time.Now(),
	}, nil
}

// summaryForCode maps WMO weather codes to short labels.
func summaryForCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "showers"
	case code <= 86:
		return "snow showers"
	default:
		return "storm"
	}
}
