package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tripplanner/internal/models/response_models"
)

// NormalizeOptions carries the request parameters the normalizer falls back
// on. Generate enables the generation-only defaults (dates, overview).
type NormalizeOptions struct {
	Generate    bool
	Destination string
	StartDate   string
	Duration    int
	Budget      string
	Forecast    *response_models.WeatherInfo
}

// NormalizeItinerary coerces an untrusted decoded object into an Itinerary.
// It never fails: anything it cannot use is replaced by its zero value, and
// Days, Tips and every day's Activities come back as non-nil slices.
func NormalizeItinerary(raw any, opts NormalizeOptions) response_models.Itinerary {
	obj, _ := raw.(map[string]any)

	out := response_models.Itinerary{
		Days: []response_models.ItineraryDay{},
		Tips: []string{},
	}

	overview, hasOverview := obj["overview"].(map[string]any)
	if hasOverview {
		out.Overview = normalizeOverview(overview)
	} else if opts.Generate {
		out.Overview = synthesizeOverview(opts)
	}

	if days, ok := obj["days"].([]any); ok {
		for i, d := range days {
			out.Days = append(out.Days, normalizeDay(d, i, opts))
		}
	}

	if tips, ok := obj["tips"].([]any); ok {
		for _, t := range tips {
			if s := asString(t); s != "" {
				out.Tips = append(out.Tips, s)
			}
		}
	}

	out.Weather = mergeWeather(obj["weather"], opts.Forecast)
	if out.Weather != nil {
		fillDayWeather(out.Days, out.Weather)
	}

	return out
}

func normalizeOverview(m map[string]any) response_models.Overview {
	return response_models.Overview{
		Title:           asString(m["title"]),
		Duration:        asString(m["duration"]),
		Route:           asString(m["route"]),
		BudgetBreakdown: asString(m["budgetBreakdown"]),
		Transport:       asString(m["transport"]),
	}
}

func synthesizeOverview(opts NormalizeOptions) response_models.Overview {
	duration := opts.Duration
	if duration < 1 {
		duration = 1
	}
	return response_models.Overview{
		Title:           fmt.Sprintf("%d-Day Trip to %s", duration, opts.Destination),
		Duration:        fmt.Sprintf("%d days", duration),
		Route:           opts.Destination,
		BudgetBreakdown: "Budget level: " + orDefault(opts.Budget, "moderate"),
	}
}

func normalizeDay(raw any, index int, opts NormalizeOptions) response_models.ItineraryDay {
	m, _ := raw.(map[string]any)

	day := response_models.ItineraryDay{
		Day:        index + 1,
		Date:       asString(m["date"]),
		Weekday:    asString(m["weekday"]),
		City:       asString(m["city"]),
		Weather:    asString(m["weather"]),
		DailyTotal: asString(m["dailyTotal"]),
		Activities: []response_models.ItineraryActivity{},
	}
	if n, ok := asPositiveInt(m["day"]); ok {
		day.Day = n
	}

	if opts.Generate && day.Date == "" {
		day.Date = opts.StartDate
	}

	if acts, ok := m["activities"].([]any); ok {
		for _, a := range acts {
			day.Activities = append(day.Activities, normalizeActivity(a))
		}
	}
	return day
}

func normalizeActivity(raw any) response_models.ItineraryActivity {
	if s, ok := raw.(string); ok {
		return response_models.ItineraryActivity{Activity: s, Title: s}
	}
	m, _ := raw.(map[string]any)

	act := response_models.ItineraryActivity{
		Time:      asString(m["time"]),
		Activity:  asString(m["activity"]),
		Title:     asString(m["title"]),
		Cost:      asString(m["cost"]),
		Duration:  asString(m["duration"]),
		Transport: asString(m["transport"]),
		Note:      asString(m["note"]),
		Tips:      asString(m["tips"]),
		VeggieTip: asString(m["veggieTip"]),
	}
	if act.Activity == "" {
		act.Activity = act.Title
	}
	if act.Title == "" {
		act.Title = act.Activity
	}
	if act.Note == "" {
		act.Note = act.Tips
	}
	return act
}

// mergeWeather prefers the model's values field by field and falls back to
// the forecast wherever the model left a field empty.
func mergeWeather(raw any, forecast *response_models.WeatherInfo) *response_models.WeatherInfo {
	m, ok := raw.(map[string]any)
	if !ok || len(m) == 0 {
		if forecast == nil {
			return nil
		}
		cp := *forecast
		cp.Daily = append([]response_models.DailyWeather(nil), forecast.Daily...)
		return &cp
	}

	merged := &response_models.WeatherInfo{
		Summary:       asString(m["summary"]),
		Temperature:   asString(m["temperature"]),
		Precipitation: asString(m["precipitation"]),
		Source:        asString(m["source"]),
	}
	if daily, ok := m["daily"].([]any); ok {
		for _, d := range daily {
			dm, _ := d.(map[string]any)
			merged.Daily = append(merged.Daily, response_models.DailyWeather{
				Date:                asString(dm["date"]),
				Summary:             asString(dm["summary"]),
				High:                asString(dm["high"]),
				Low:                 asString(dm["low"]),
				PrecipitationChance: asString(dm["precipitationChance"]),
			})
		}
	}

	if forecast == nil {
		return merged
	}
	merged.Summary = firstNonEmpty(merged.Summary, forecast.Summary)
	merged.Temperature = firstNonEmpty(merged.Temperature, forecast.Temperature)
	merged.Precipitation = firstNonEmpty(merged.Precipitation, forecast.Precipitation)
	merged.Source = firstNonEmpty(merged.Source, forecast.Source)
	if len(merged.Daily) == 0 {
		merged.Daily = append([]response_models.DailyWeather(nil), forecast.Daily...)
	}
	return merged
}

func fillDayWeather(days []response_models.ItineraryDay, weather *response_models.WeatherInfo) {
	byDate := make(map[string]response_models.DailyWeather, len(weather.Daily))
	for _, d := range weather.Daily {
		byDate[d.Date] = d
	}
	for i := range days {
		if days[i].Weather != "" {
			continue
		}
		if d, ok := byDate[days[i].Date]; ok {
			days[i].Weather = d.Describe()
		}
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asPositiveInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t >= 1 && t == math.Trunc(t) {
			return int(t), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n >= 1 {
			return n, true
		}
	}
	return 0, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
