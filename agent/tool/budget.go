package tool

import (
	"context"
	"math"
	"strings"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

// Coarse per-day price bands in USD, lodging plus food plus activities.
var perDayBase = map[string]int{
	"western europe": 160,
	"eastern europe": 120,
	"greece":         110,
	"cyprus":         110,
	"bulgaria":       90,
	"romania":        95,
	"slovenia":       100,
	"japan":          160,
	"southeast asia": 85,
}

// Rough round-trip flight cost from Tel Aviv per price bucket, USD.
var flightFromTLV = map[string]int{
	"western europe": 450,
	"eastern europe": 350,
	"greece":         300,
	"cyprus":         200,
	"bulgaria":       300,
	"romania":        300,
	"slovenia":       350,
	"japan":          1000,
	"southeast asia": 900,
}

// Common city and area names mapped onto the pricing buckets above.
var aliasToBucket = map[string]string{
	"prague":   "eastern europe",
	"budapest": "eastern europe",
	"krakow":   "eastern europe",
	"baltics":  "eastern europe",

	"vienna":    "western europe",
	"barcelona": "western europe",
	"spain":     "western europe",
	"lisbon":    "western europe",
	"portugal":  "western europe",
	"porto":     "western europe",
	"amsterdam": "western europe",
	"paris":     "western europe",
	"rome":      "western europe",
	"berlin":    "western europe",
	"madrid":    "western europe",

	"sofia":     "bulgaria",
	"plovdiv":   "bulgaria",
	"bucharest": "romania",
	"cluj":      "romania",

	"athens":   "greece",
	"crete":    "greece",
	"rhodes":   "greece",
	"limassol": "cyprus",
	"larnaca":  "cyprus",
	"paphos":   "cyprus",

	"ljubljana": "slovenia",
	"tokyo":     "japan",
	"kyoto":     "japan",

	"bangkok": "southeast asia",
	"bali":    "southeast asia",
	"hanoi":   "southeast asia",
}

// Destinations we never recommend. They still resolve to a comparable price
// class so an explicit question gets a usable number.
var excludedDestinations = map[string]bool{
	"turkey":   true,
	"istanbul": true,
	"antalya":  true,
	"izmir":    true,
}

const (
	fallbackBucket  = "eastern europe"
	fallbackPerDay  = 120
	fallbackFlight  = 350
	defaultComfort  = "standard"
	budgetRangeBand = 0.1
)

// BudgetEstimate is the budget provider payload.
type BudgetEstimate struct {
	Origin            string  `json:"origin"`
	RegionBucket      string  `json:"region_bucket"`
	Days              int     `json:"days"`
	Flight            int     `json:"flight"`
	PerDayBase        int     `json:"per_day_base"`
	ComfortLevel      string  `json:"comfort_level"`
	ComfortMultiplier float64 `json:"comfort_multiplier"`
	PerDayApplied     int     `json:"per_day_applied"`
	EstimateTotal     int     `json:"estimate_total"`
	RangeLow          int     `json:"range_low"`
	RangeHigh         int     `json:"range_high"`
	Lodging           int     `json:"lodging_food_activities"`
	BudgetAmount      float64 `json:"budget_amount,omitempty"`
	BudgetCurrency    string  `json:"budget_currency,omitempty"`
	FitsBudget        *bool   `json:"fits_budget,omitempty"`
	Disclaimer        string  `json:"disclaimer"`
}

// BudgetProvider estimates trip cost from regional price bands. It is a pure
// heuristic and never fails.
type BudgetProvider struct{}

func NewBudgetProvider() *BudgetProvider { return &BudgetProvider{} }

func (p *BudgetProvider) Name() contractx.ToolName { return contractx.ToolBudget }

func (p *BudgetProvider) Available() bool { return true }

func (p *BudgetProvider) Invoke(_ context.Context, params map[string]any) (any, bool, error) {
	region := stringParam(params, "region")
	days := intParam(params, "days")
	if days < 1 {
		days = 1
	}
	origin := stringParam(params, "origin")
	if origin == "" {
		origin = DefaultOrigin
	}
	comfort := stringParam(params, "comfort")
	if comfort == "" {
		comfort = defaultComfort
	}

	bucket := resolveBucket(region)
	base, ok := perDayBase[bucket]
	if !ok {
		base = fallbackPerDay
	}
	flight, ok := flightFromTLV[bucket]
	if !ok {
		flight = fallbackFlight
	}

	mult := comfortMultiplier(comfort)
	perDay := int(math.Round(float64(base) * mult))
	variable := perDay * days
	total := flight + variable

	est := BudgetEstimate{
		Origin:            origin,
		RegionBucket:      bucket,
		Days:              days,
		Flight:            flight,
		PerDayBase:        base,
		ComfortLevel:      comfort,
		ComfortMultiplier: mult,
		PerDayApplied:     perDay,
		EstimateTotal:     total,
		RangeLow:          int(float64(total) * (1 - budgetRangeBand)),
		RangeHigh:         int(float64(total) * (1 + budgetRangeBand)),
		Lodging:           variable,
		Disclaimer: "Heuristic estimate based on regional price bands and a rough flight cost from Tel Aviv. " +
			"Real prices vary by dates, booking timing, and hotel/airline choices.",
	}

	if amount := floatParam(params, "budget_amount"); amount > 0 {
		est.BudgetAmount = amount
		est.BudgetCurrency = stringParam(params, "budget_currency")
		fits := amount >= float64(est.RangeLow)
		est.FitsBudget = &fits
	}

	return est, true, nil
}

func resolveBucket(regionOrCity string) string {
	key := strings.ToLower(strings.TrimSpace(regionOrCity))
	if key == "" || excludedDestinations[key] {
		return fallbackBucket
	}
	if _, ok := perDayBase[key]; ok {
		return key
	}
	if bucket, ok := aliasToBucket[key]; ok {
		return bucket
	}
	return fallbackBucket
}

func comfortMultiplier(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "budget":
		return 0.8
	case "comfort":
		return 1.3
	default:
		return 1.0
	}
}

// Recommendable reports whether a destination may be suggested to the user.
func Recommendable(regionOrCity string) bool {
	return !excludedDestinations[strings.ToLower(strings.TrimSpace(regionOrCity))]
}
