package nlu

import (
	"testing"
	"time"

	statex "github.com/tripsmith/tripsmith/agent/state"
)

var refDate = time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

func TestNormalizeFullUtterance(t *testing.T) {
	t.Parallel()

	e := Normalize("I have $800 from Tel Aviv for 4 days in November", refDate)

	if e.BudgetTotal == nil || e.BudgetTotal.Amount != 800 || e.BudgetTotal.Currency != "USD" {
		t.Fatalf("budget = %+v", e.BudgetTotal)
	}
	if e.DurationDays != 4 {
		t.Fatalf("duration = %d", e.DurationDays)
	}
	if e.TravelDates == nil {
		t.Fatal("no travel dates")
	}
	if e.TravelDates.Start.Month() != time.November || e.TravelDates.Start.Year() != 2025 {
		t.Fatalf("dates = %+v", e.TravelDates)
	}
	if e.DestinationRegion != "" {
		t.Fatalf("origin leaked into destination: %q", e.DestinationRegion)
	}
}

func TestNormalizeMonthRollsPastMonths(t *testing.T) {
	t.Parallel()

	e := Normalize("thinking about prague in march", refDate)
	if e.TravelDates == nil {
		t.Fatal("no travel dates")
	}
	if e.TravelDates.Start.Year() != 2026 || e.TravelDates.Start.Month() != time.March {
		t.Fatalf("march did not roll to next year: %+v", e.TravelDates)
	}
	if e.DestinationRegion != "prague" {
		t.Fatalf("destination = %q", e.DestinationRegion)
	}
}

func TestNormalizeCurrentMonthStaysInYear(t *testing.T) {
	t.Parallel()

	e := Normalize("a trip in september", refDate)
	if e.TravelDates == nil || e.TravelDates.Start.Year() != 2025 {
		t.Fatalf("dates = %+v", e.TravelDates)
	}
}

func TestNormalizeDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"4 days in prague", 4},
		{"5 nights", 5},
		{"2 weeks in japan", 14},
		{"a week somewhere warm", 7},
		{"no duration here", 0},
	}
	for _, tc := range tests {
		if got := Normalize(tc.text, refDate).DurationDays; got != tc.want {
			t.Fatalf("Normalize(%q).DurationDays = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestNormalizeBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text         string
		wantAmount   float64
		wantCurrency string
	}{
		{"budget of $1,200", 1200, "USD"},
		{"around €900 total", 900, "EUR"},
		{"1000 euros for everything", 1000, "EUR"},
		{"3500 shekels", 3500, "ILS"},
		{"my budget is 750", 750, "USD"},
	}
	for _, tc := range tests {
		got := Normalize(tc.text, refDate).BudgetTotal
		if got == nil || got.Amount != tc.wantAmount || got.Currency != tc.wantCurrency {
			t.Fatalf("Normalize(%q).BudgetTotal = %+v, want %v %s", tc.text, got, tc.wantAmount, tc.wantCurrency)
		}
	}

	if got := Normalize("no money talk", refDate).BudgetTotal; got != nil {
		t.Fatalf("unexpected budget: %+v", got)
	}
}

func TestNormalizePartyAndPreferences(t *testing.T) {
	t.Parallel()

	e := Normalize("I'm solo and I love photography and food", refDate)
	if e.PartyType != statex.PartySolo {
		t.Fatalf("party = %q", e.PartyType)
	}
	if len(e.Preferences) != 2 {
		t.Fatalf("preferences = %v", e.Preferences)
	}

	e = Normalize("traveling with my wife and kids", refDate)
	if e.PartyType != statex.PartyCouple && e.PartyType != statex.PartyFamily {
		t.Fatalf("party = %q", e.PartyType)
	}
}

func TestNormalizeMayNeedsPreposition(t *testing.T) {
	t.Parallel()

	if e := Normalize("it may be a good idea", refDate); e.TravelDates != nil {
		t.Fatalf("verb 'may' parsed as month: %+v", e.TravelDates)
	}
	e := Normalize("prague in may", refDate)
	if e.TravelDates == nil || e.TravelDates.Start.Month() != time.May || e.TravelDates.Start.Year() != 2026 {
		t.Fatalf("dates = %+v", e.TravelDates)
	}
}

func TestNormalizeUnresolvableOmitted(t *testing.T) {
	t.Parallel()

	e := Normalize("what's the best pizza topping", refDate)
	if !e.IsEmpty() {
		t.Fatalf("expected empty entities, got %+v", e)
	}
}

func TestMonthWindow(t *testing.T) {
	t.Parallel()

	r, ok := MonthWindow("nov", refDate)
	if !ok {
		t.Fatal("nov not recognized")
	}
	if r.Start != time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("start = %v", r.Start)
	}
	if r.End != time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("end = %v", r.End)
	}

	if _, ok := MonthWindow("smarch", refDate); ok {
		t.Fatal("unknown month accepted")
	}
}

func TestNormalizeNextMonth(t *testing.T) {
	t.Parallel()

	e := Normalize("somewhere cheap next month", refDate)
	if e.TravelDates == nil || e.TravelDates.Start.Month() != time.October || e.TravelDates.Start.Year() != 2025 {
		t.Fatalf("dates = %+v", e.TravelDates)
	}
}
