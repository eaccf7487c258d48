package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newWeatherTestProvider(t *testing.T, geocodeBody, climateBody string) (*WeatherProvider, *[]string) {
	t.Helper()

	var queries []string
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, "geo:"+r.URL.RawQuery)
		_, _ = w.Write([]byte(geocodeBody))
	}))
	t.Cleanup(geo.Close)

	climate := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, "climate:"+r.URL.RawQuery)
		_, _ = w.Write([]byte(climateBody))
	}))
	t.Cleanup(climate.Close)

	return NewWeatherProvider(WeatherConfig{
		GeocodeURL: geo.URL,
		ClimateURL: climate.URL,
		Timeout:    2 * time.Second,
	}), &queries
}

const pragueGeocode = `{"results":[{"latitude":50.08,"longitude":14.42,"name":"Prague"}]}`

const novemberClimate = `{"daily":{
	"time":["1991-10-31","1991-11-01","1991-11-02","1992-11-01"],
	"temperature_2m_mean":[14.0,10.0,12.0,8.0],
	"precipitation_sum":[1.0,2.0,0.0,4.0]
}}`

func TestWeatherSummary(t *testing.T) {
	t.Parallel()

	p, _ := newWeatherTestProvider(t, pragueGeocode, novemberClimate)

	payload, found, err := p.Invoke(context.Background(), map[string]any{
		"place": "prague",
		"start": time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
		"end":   time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !found {
		t.Fatal("expected payload")
	}

	summary, ok := payload.(WeatherSummary)
	if !ok {
		t.Fatalf("payload type = %T", payload)
	}
	if summary.Place != "Prague" || summary.Month != 11 {
		t.Fatalf("summary = %+v", summary)
	}
	// mean of 10, 12, 8 over the three November days
	if summary.AvgTempC == nil || *summary.AvgTempC != 10.0 {
		t.Fatalf("avg temp = %v", summary.AvgTempC)
	}
	// 6mm over 2 distinct years
	if summary.RainMM == nil || *summary.RainMM != 3.0 {
		t.Fatalf("rain = %v", summary.RainMM)
	}
}

func TestWeatherUnresolvedPlaceIsEmpty(t *testing.T) {
	t.Parallel()

	p, _ := newWeatherTestProvider(t, `{"results":[]}`, novemberClimate)

	_, found, err := p.Invoke(context.Background(), map[string]any{
		"place": "atlantis",
		"start": time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if found {
		t.Fatal("expected empty result for unresolved place")
	}
}

func TestWeatherMissingParamsIsEmpty(t *testing.T) {
	t.Parallel()

	p, queries := newWeatherTestProvider(t, pragueGeocode, novemberClimate)

	if _, found, err := p.Invoke(context.Background(), map[string]any{}); err != nil || found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if len(*queries) != 0 {
		t.Fatalf("provider called upstream without params: %v", *queries)
	}
}

func TestWeatherUpstreamErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewWeatherProvider(WeatherConfig{GeocodeURL: srv.URL, ClimateURL: srv.URL, Timeout: time.Second})
	_, _, err := p.Invoke(context.Background(), map[string]any{
		"place": "prague",
		"start": time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
