package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

// EventsConfig configures the Ticketmaster Discovery provider. The provider
// reports itself unavailable without an API key.
type EventsConfig struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://app.ticketmaster.com/discovery/v2/events.json"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	Size    int           `envconfig:"SIZE" split_words:"true" default:"10"`
}

// Country codes that disambiguate common city searches.
var cityCountry = map[string]string{
	"london":    "GB",
	"amsterdam": "NL",
	"prague":    "CZ",
	"paris":     "FR",
	"berlin":    "DE",
	"rome":      "IT",
	"new york":  "US",
	"tokyo":     "JP",
	"athens":    "GR",
	"sofia":     "BG",
	"bucharest": "RO",
}

// Event is one entry of the events provider payload.
type Event struct {
	Title    string `json:"title"`
	Where    string `json:"where"`
	DateHint string `json:"date_hint"`
	URL      string `json:"url"`
}

// EventsProvider queries the Ticketmaster Discovery API. It first filters by
// city and falls back to a keyword search when the city filter finds nothing.
type EventsProvider struct {
	cfg    EventsConfig
	client *http.Client
}

func NewEventsProvider(cfg EventsConfig) *EventsProvider {
	if cfg.Size <= 0 {
		cfg.Size = 10
	}
	return &EventsProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *EventsProvider) Name() contractx.ToolName { return contractx.ToolEvents }

func (p *EventsProvider) Available() bool { return p.cfg.APIKey != "" }

func (p *EventsProvider) Invoke(ctx context.Context, params map[string]any) (any, bool, error) {
	city := strings.TrimSpace(stringParam(params, "city"))
	start := timeParam(params, "start")
	end := timeParam(params, "end")
	if city == "" || start.IsZero() {
		return nil, false, nil
	}
	if end.IsZero() {
		end = start.AddDate(0, 1, -1)
	}

	base := url.Values{}
	base.Set("apikey", p.cfg.APIKey)
	base.Set("startDateTime", start.UTC().Format("2006-01-02T15:04:05Z"))
	base.Set("endDateTime", end.UTC().Format("2006-01-02T15:04:05Z"))
	base.Set("size", strconv.Itoa(p.cfg.Size))
	base.Set("sort", "date,asc")
	base.Set("locale", "*")
	if cc, ok := cityCountry[strings.ToLower(city)]; ok {
		base.Set("countryCode", cc)
	}

	byCity := cloneValues(base)
	byCity.Set("city", city)
	events, err := p.search(ctx, byCity, city)
	if err != nil {
		return nil, false, fmt.Errorf("%w: events city search: %v", contractx.ErrToolInvoke, err)
	}
	if len(events) > 0 {
		return events, true, nil
	}

	byKeyword := cloneValues(base)
	byKeyword.Set("keyword", city)
	events, err = p.search(ctx, byKeyword, city)
	if err != nil {
		return nil, false, fmt.Errorf("%w: events keyword search: %v", contractx.ErrToolInvoke, err)
	}
	return events, len(events) > 0, nil
}

type discoveryResponse struct {
	Embedded struct {
		Events []struct {
			Name     string `json:"name"`
			URL      string `json:"url"`
			Embedded struct {
				Venues []struct {
					Name string `json:"name"`
				} `json:"venues"`
			} `json:"_embedded"`
			Dates struct {
				Start struct {
					LocalDate string `json:"localDate"`
				} `json:"start"`
			} `json:"dates"`
		} `json:"events"`
	} `json:"_embedded"`
}

func (p *EventsProvider) search(ctx context.Context, q url.Values, fallbackCity string) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body discoveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	out := make([]Event, 0, len(body.Embedded.Events))
	for _, e := range body.Embedded.Events {
		where := fallbackCity
		if len(e.Embedded.Venues) > 0 && e.Embedded.Venues[0].Name != "" {
			where = e.Embedded.Venues[0].Name
		}
		out = append(out, Event{
			Title:    e.Name,
			Where:    where,
			DateHint: e.Dates.Start.LocalDate,
			URL:      e.URL,
		})
	}
	return out, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
