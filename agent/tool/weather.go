package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

// WeatherConfig configures the Open-Meteo backed climate provider.
type WeatherConfig struct {
	GeocodeURL string        `envconfig:"GEOCODE_URL" split_words:"true" default:"https://geocoding-api.open-meteo.com/v1/search"`
	ClimateURL string        `envconfig:"CLIMATE_URL" split_words:"true" default:"https://climate-api.open-meteo.com/v1/climate"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// WeatherSummary is the weather provider payload: climate normals for one
// place and month.
type WeatherSummary struct {
	Place    string   `json:"place"`
	Month    int      `json:"month"`
	Year     int      `json:"year_context"`
	AvgTempC *float64 `json:"avg_temp_c"`
	RainMM   *float64 `json:"rain_mm"`
	Notes    string   `json:"notes"`
	Source   string   `json:"source"`
}

// WeatherProvider resolves a place through the Open-Meteo geocoder and
// summarizes 1991-2020 climate normals for the requested month.
type WeatherProvider struct {
	cfg    WeatherConfig
	client *http.Client
}

func NewWeatherProvider(cfg WeatherConfig) *WeatherProvider {
	return &WeatherProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *WeatherProvider) Name() contractx.ToolName { return contractx.ToolWeather }

func (p *WeatherProvider) Available() bool { return true }

func (p *WeatherProvider) Invoke(ctx context.Context, params map[string]any) (any, bool, error) {
	place := stringParam(params, "place")
	start := timeParam(params, "start")
	if place == "" || start.IsZero() {
		return nil, false, nil
	}

	lat, lon, resolved, err := p.geocode(ctx, place)
	if err != nil {
		return nil, false, fmt.Errorf("%w: geocode %q: %v", contractx.ErrToolInvoke, place, err)
	}
	if resolved == "" {
		return nil, false, nil
	}

	month := int(start.Month())
	temp, rain, err := p.monthNormals(ctx, lat, lon, month)
	if err != nil {
		return nil, false, fmt.Errorf("%w: climate normals for %q: %v", contractx.ErrToolInvoke, resolved, err)
	}
	if temp == nil && rain == nil {
		return nil, false, nil
	}

	return WeatherSummary{
		Place:    resolved,
		Month:    month,
		Year:     start.Year(),
		AvgTempC: temp,
		RainMM:   rain,
		Notes:    "Climate normals 1991-2020",
		Source:   "Open-Meteo (geocoding + climate)",
	}, true, nil
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
	} `json:"results"`
}

func (p *WeatherProvider) geocode(ctx context.Context, place string) (float64, float64, string, error) {
	q := url.Values{}
	q.Set("name", place)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var resp geocodeResponse
	if err := p.getJSON(ctx, p.cfg.GeocodeURL, q, &resp); err != nil {
		return 0, 0, "", err
	}
	if len(resp.Results) == 0 {
		return 0, 0, "", nil
	}
	res := resp.Results[0]
	name := res.Name
	if name == "" {
		name = place
	}
	return res.Latitude, res.Longitude, name, nil
}

type climateResponse struct {
	Daily struct {
		Time          []string  `json:"time"`
		TempMean      []float64 `json:"temperature_2m_mean"`
		Precipitation []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// monthNormals averages the 1991-2020 daily series down to a monthly mean
// temperature and a mean monthly rainfall total.
func (p *WeatherProvider) monthNormals(ctx context.Context, lat, lon float64, month int) (*float64, *float64, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("start_date", "1991-01-01")
	q.Set("end_date", "2020-12-31")
	q.Set("models", "ERA5")
	q.Set("daily", "temperature_2m_mean,precipitation_sum")

	var resp climateResponse
	if err := p.getJSON(ctx, p.cfg.ClimateURL, q, &resp); err != nil {
		return nil, nil, err
	}

	var (
		tempSum, rainSum float64
		days             int
		years            = map[int]bool{}
	)
	for i, day := range resp.Daily.Time {
		t, err := time.Parse("2006-01-02", day)
		if err != nil || int(t.Month()) != month {
			continue
		}
		if i < len(resp.Daily.TempMean) {
			tempSum += resp.Daily.TempMean[i]
		}
		if i < len(resp.Daily.Precipitation) {
			rainSum += resp.Daily.Precipitation[i]
		}
		days++
		years[t.Year()] = true
	}
	if days == 0 {
		return nil, nil, nil
	}

	temp := round1(tempSum / float64(days))
	rain := round1(rainSum / float64(len(years)))
	return &temp, &rain, nil
}

func (p *WeatherProvider) getJSON(ctx context.Context, base string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
