package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"tripplanner/internal/models/response_models"
)

const (
	DefaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// ForecastHorizonDays is how far ahead Open-Meteo publishes daily data.
	ForecastHorizonDays = 16
	sourceName          = "open-meteo"
	dateLayout          = "2006-01-02"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrOutOfRange       = errors.New("dates outside the forecast horizon")
)

type ForecasterInterface interface {
	Forecast(ctx context.Context, destination, startDate string, days int) (*response_models.WeatherInfo, error)
}

type Config struct {
	GeocodeURL  string
	ForecastURL string
	Timeout     time.Duration
}

type OpenMeteoClient struct {
	http        *resty.Client
	geocodeURL  string
	forecastURL string
	now         func() time.Time
}

func NewOpenMeteoClient(cfg Config) *OpenMeteoClient {
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = DefaultGeocodeURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &OpenMeteoClient{
		http:        client,
		geocodeURL:  cfg.GeocodeURL,
		forecastURL: cfg.ForecastURL,
		now:         time.Now,
	}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		WeatherCode      []int     `json:"weather_code"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationMax []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// Forecast geocodes destination and fetches daily weather for the trip days
// that fall inside the forecast horizon.
func (c *OpenMeteoClient) Forecast(ctx context.Context, destination, startDate string, days int) (*response_models.WeatherInfo, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	if days < 1 {
		days = 1
	}
	end := start.AddDate(0, 0, days-1)

	today := c.now().UTC().Truncate(24 * time.Hour)
	horizon := today.AddDate(0, 0, ForecastHorizonDays-1)
	if start.Before(today) {
		start = today
	}
	if end.After(horizon) {
		end = horizon
	}
	if start.After(end) {
		return nil, ErrOutOfRange
	}

	lat, lon, err := c.geocode(ctx, destination)
	if err != nil {
		return nil, err
	}

	var fr forecastResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":   fmt.Sprintf("%.4f", lat),
			"longitude":  fmt.Sprintf("%.4f", lon),
			"daily":      "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max",
			"timezone":   "auto",
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
		}).
		SetResult(&fr).
		Get(c.forecastURL)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("forecast request: status %d", resp.StatusCode())
	}

	return buildWeatherInfo(fr), nil
}

func (c *OpenMeteoClient) geocode(ctx context.Context, destination string) (float64, float64, error) {
	// "Kyoto, Japan" geocodes better as "Kyoto".
	name := strings.TrimSpace(strings.Split(destination, ",")[0])
	if name == "" {
		return 0, 0, ErrLocationNotFound
	}

	var gr geocodeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     name,
			"count":    "1",
			"language": "en",
			"format":   "json",
		}).
		SetResult(&gr).
		Get(c.geocodeURL)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		return 0, 0, fmt.Errorf("geocode request: status %d", resp.StatusCode())
	}
	if len(gr.Results) == 0 {
		return 0, 0, ErrLocationNotFound
	}
	return gr.Results[0].Latitude, gr.Results[0].Longitude, nil
}

func buildWeatherInfo(fr forecastResponse) *response_models.WeatherInfo {
	info := &response_models.WeatherInfo{Source: sourceName}

	minLow, maxHigh := math.Inf(1), math.Inf(-1)
	maxRain := -1.0
	counts := map[string]int{}

	for i, date := range fr.Daily.Time {
		day := response_models.DailyWeather{Date: date}
		if i < len(fr.Daily.WeatherCode) {
			day.Summary = DescribeCode(fr.Daily.WeatherCode[i])
			counts[day.Summary]++
		}
		if i < len(fr.Daily.TemperatureMax) {
			high := fr.Daily.TemperatureMax[i]
			day.High = formatTemp(high)
			maxHigh = math.Max(maxHigh, high)
		}
		if i < len(fr.Daily.TemperatureMin) {
			low := fr.Daily.TemperatureMin[i]
			day.Low = formatTemp(low)
			minLow = math.Min(minLow, low)
		}
		if i < len(fr.Daily.PrecipitationMax) {
			rain := fr.Daily.PrecipitationMax[i]
			day.PrecipitationChance = fmt.Sprintf("%.0f%%", rain)
			maxRain = math.Max(maxRain, rain)
		}
		info.Daily = append(info.Daily, day)
	}

	info.Summary = dominant(counts)
	if !math.IsInf(minLow, 0) && !math.IsInf(maxHigh, 0) {
		info.Temperature = fmt.Sprintf("%s to %s", formatTemp(minLow), formatTemp(maxHigh))
	}
	if maxRain >= 0 {
		info.Precipitation = fmt.Sprintf("up to %.0f%% chance of rain", maxRain)
	}
	return info
}

func dominant(counts map[string]int) string {
	best, bestN := "", 0
	for summary, n := range counts {
		if n > bestN || (n == bestN && summary < best) {
			best, bestN = summary, n
		}
	}
	return best
}

func formatTemp(c float64) string {
	return fmt.Sprintf("%.0fC", math.Round(c))
}

// DescribeCode maps a WMO weather interpretation code to a short phrase.
func DescribeCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Mixed conditions"
	}
}
