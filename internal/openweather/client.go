package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
)

const (
	defaultCurrentURL  = "https://api.openweathermap.org/data/2.5/weather"
	defaultForecastURL = "https://api.openweathermap.org/data/2.5/forecast"

	// forecastCount covers 5 days at 3-hour resolution.
	forecastCount = 40
)

// Client queries the OpenWeatherMap current-conditions and forecast APIs.
// All requests use imperial units. Every call is a single timeout-bounded
// attempt; failures come back as structured errors, never retries.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	currentURL  string
	forecastURL string
}

// NewClient creates a Client. connectTimeout bounds connection establishment;
// readTimeout bounds the whole request.
func NewClient(apiKey string, connectTimeout, readTimeout time.Duration) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: readTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		currentURL:  defaultCurrentURL,
		forecastURL: defaultForecastURL,
	}
}

// CurrentConditions holds the provider's current-weather payload fields the
// pipeline consumes.
type CurrentConditions struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Visibility float64 `json:"visibility"`
}

// ForecastResponse holds the 3-hour forecast feed.
type ForecastResponse struct {
	List []ForecastItem `json:"list"`
}

// ForecastItem is one 3-hour slot of the forecast feed. Pop is a 0-1 fraction.
type ForecastItem struct {
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Pop float64 `json:"pop"`
}

// RawCurrentByCity fetches current conditions for a city and returns both the
// decoded payload and the raw body, so ingestion can archive the body verbatim.
func (c *Client) RawCurrentByCity(ctx context.Context, city string) (*CurrentConditions, []byte, error) {
	if c.apiKey == "" {
		return nil, nil, model.NewError(model.KindConfiguration, "OpenWeatherMap API key not configured")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "imperial")

	body, err := c.get(ctx, c.currentURL, q)
	if err != nil {
		return nil, nil, err
	}

	var payload CurrentConditions
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, model.WrapError(model.KindMalformedResponse, err, "decode current conditions for %s", city)
	}
	if len(payload.Weather) == 0 {
		return nil, nil, model.NewError(model.KindMalformedResponse, "current conditions for %s missing weather block", city)
	}
	return &payload, body, nil
}

// Forecast fetches the 3-hour-resolution forecast for the given coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*ForecastResponse, error) {
	if c.apiKey == "" {
		return nil, model.NewError(model.KindConfiguration, "OpenWeatherMap API key not configured")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "imperial")
	q.Set("cnt", strconv.Itoa(forecastCount))

	body, err := c.get(ctx, c.forecastURL, q)
	if err != nil {
		return nil, err
	}

	var payload ForecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, model.WrapError(model.KindMalformedResponse, err, "decode forecast payload")
	}
	return &payload, nil
}

// get performs one bounded GET and maps transport and status failures onto
// the error taxonomy.
func (c *Client) get(ctx context.Context, base string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, model.WrapError(model.KindUpstreamUnavailable, err, "build provider request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, model.WrapError(model.KindUpstreamUnavailable, err, "provider request timed out")
		}
		return nil, model.WrapError(model.KindUpstreamUnavailable, err, "provider request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, model.NewError(model.KindConfiguration, "invalid API key")
	case resp.StatusCode != http.StatusOK:
		return nil, model.NewError(model.KindUpstreamUnavailable, "provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.WrapError(model.KindUpstreamUnavailable, err, "read provider response")
	}
	return body, nil
}

// Description returns the first weather entry's description, the field the
// dashboard shows as the condition.
func (cc *CurrentConditions) Description() string {
	if len(cc.Weather) == 0 {
		return ""
	}
	return cc.Weather[0].Description
}
