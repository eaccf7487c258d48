package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	statex "github.com/tripsmith/tripsmith/agent/state"
)

// monthNumbers maps normalized month names to their calendar number.
var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var monthAliases = map[string]string{
	"jan": "january", "feb": "february", "mar": "march", "apr": "april",
	"jun": "june", "jul": "july", "aug": "august",
	"sep": "september", "sept": "september",
	"oct": "october", "nov": "november", "dec": "december",
}

// knownPlaces are the destination mentions the normalizer recognizes: pricing
// regions plus the cities the budget model can bucket.
var knownPlaces = []string{
	"western europe", "eastern europe", "southeast asia",
	"prague", "budapest", "krakow", "vienna", "sofia", "plovdiv", "bucharest", "cluj",
	"barcelona", "spain", "lisbon", "porto", "portugal", "amsterdam", "paris", "rome",
	"berlin", "madrid", "london",
	"athens", "crete", "rhodes", "greece", "limassol", "larnaca", "paphos", "cyprus",
	"ljubljana", "slovenia", "bulgaria", "romania", "baltics",
	"tokyo", "kyoto", "japan", "bangkok", "bali", "hanoi",
}

var currencySymbols = map[string]string{
	"$": "USD", "€": "EUR", "£": "GBP", "₪": "ILS",
}

var currencyWords = map[string]string{
	"usd": "USD", "dollar": "USD", "dollars": "USD", "bucks": "USD",
	"eur": "EUR", "euro": "EUR", "euros": "EUR",
	"gbp": "GBP", "pound": "GBP", "pounds": "GBP",
	"ils": "ILS", "shekel": "ILS", "shekels": "ILS", "nis": "ILS",
}

// DefaultCurrency is assumed when a budget amount carries no currency cue.
const DefaultCurrency = "USD"

var (
	durationDaysRe   = regexp.MustCompile(`(\d+)\s*(?:days?|nights?)`)
	durationWeeksRe  = regexp.MustCompile(`(\d+)\s*weeks?`)
	budgetSymbolRe   = regexp.MustCompile(`([$€£₪])\s?(\d+(?:,\d{3})*(?:\.\d+)?)`)
	budgetWordRe     = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?)\s*(usd|dollars?|bucks|eur|euros?|gbp|pounds?|ils|shekels?|nis)\b`)
	budgetBareRe     = regexp.MustCompile(`(?:budget|spend|have)\D{0,12}?(\d{2,}(?:,\d{3})*(?:\.\d+)?)`)
	preferenceLexicon = []string{
		"photography", "food", "hiking", "museums", "nightlife", "beaches",
		"architecture", "history", "nature", "shopping", "art", "music", "wine",
	}
	partyCues = []struct {
		cue   string
		party statex.PartyType
	}{
		{"solo", statex.PartySolo},
		{"by myself", statex.PartySolo},
		{"alone", statex.PartySolo},
		{"couple", statex.PartyCouple},
		{"my partner", statex.PartyCouple},
		{"my wife", statex.PartyCouple},
		{"my husband", statex.PartyCouple},
		{"family", statex.PartyFamily},
		{"kids", statex.PartyFamily},
		{"children", statex.PartyFamily},
		{"group", statex.PartyGroup},
		{"friends", statex.PartyGroup},
	}
)

// Normalize parses raw slot mentions out of one utterance into typed values.
// Relative date expressions are anchored to referenceDate and month-only
// mentions resolve to the nearest future occurrence. Unresolvable fragments
// are omitted, never guessed. Side-effect free.
func Normalize(text string, referenceDate time.Time) statex.Entities {
	lower := strings.ToLower(text)

	e := statex.Entities{}
	e.TravelDates = parseDates(lower, referenceDate)
	e.DurationDays = parseDuration(lower)
	e.BudgetTotal = parseBudget(lower)
	e.PartyType = parseParty(lower)
	e.Preferences = parsePreferences(lower)
	e.DestinationRegion = parseDestination(lower)
	return e
}

// NormalizeMonth maps free-text month input to "january".."december" or "".
func NormalizeMonth(value string) string {
	v := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(value, ".", "")))
	if _, ok := monthNumbers[v]; ok {
		return v
	}
	if full, ok := monthAliases[v]; ok {
		return full
	}
	return ""
}

// MonthWindow returns the full-month range for the nearest future occurrence
// of the named month relative to ref. A month equal to the current one stays
// in the current year.
func MonthWindow(monthName string, ref time.Time) (statex.DateRange, bool) {
	name := NormalizeMonth(monthName)
	if name == "" {
		return statex.DateRange{}, false
	}
	m := monthNumbers[name]
	year := ref.Year()
	if m < ref.Month() {
		year++
	}
	start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return statex.DateRange{Start: start, End: end}, true
}

func parseDates(lower string, ref time.Time) *statex.DateRange {
	if strings.Contains(lower, "next month") {
		anchor := ref.AddDate(0, 1, 0)
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return &statex.DateRange{Start: start, End: end}
	}

	// Earliest textual mention wins so multi-month utterances resolve
	// deterministically.
	best := -1
	bestName := ""
	scan := func(token, name string) {
		idx := strings.Index(lower, token)
		if idx < 0 || !containsWord(lower, token) {
			return
		}
		if best < 0 || idx < best {
			best = idx
			bestName = name
		}
	}
	for name := range monthNumbers {
		// "may" doubles as a verb; only trust it with a preposition.
		if name == "may" {
			if strings.Contains(lower, "in may") || strings.Contains(lower, "for may") {
				scan("may", "may")
			}
			continue
		}
		scan(name, name)
	}
	for alias, full := range monthAliases {
		scan(alias, full)
	}
	if bestName == "" {
		return nil
	}
	r, ok := MonthWindow(bestName, ref)
	if !ok {
		return nil
	}
	return &r
}

func parseDuration(lower string) int {
	if m := durationDaysRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			return n
		}
	}
	if m := durationWeeksRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			return n * 7
		}
	}
	if strings.Contains(lower, "a week") || strings.Contains(lower, "one week") {
		return 7
	}
	return 0
}

func parseBudget(lower string) *statex.Money {
	if m := budgetSymbolRe.FindStringSubmatch(lower); m != nil {
		if amount, ok := parseAmount(m[2]); ok {
			return &statex.Money{Amount: amount, Currency: currencySymbols[m[1]]}
		}
	}
	if m := budgetWordRe.FindStringSubmatch(lower); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			word := strings.TrimSpace(m[2])
			code, ok := currencyWords[word]
			if !ok {
				code = DefaultCurrency
			}
			return &statex.Money{Amount: amount, Currency: code}
		}
	}
	if m := budgetBareRe.FindStringSubmatch(lower); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			return &statex.Money{Amount: amount, Currency: DefaultCurrency}
		}
	}
	return nil
}

func parseAmount(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func parseParty(lower string) statex.PartyType {
	for _, c := range partyCues {
		if strings.Contains(lower, c.cue) {
			return c.party
		}
	}
	return ""
}

func parsePreferences(lower string) []string {
	var out []string
	for _, tag := range preferenceLexicon {
		if strings.Contains(lower, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// parseDestination scans the place lexicon, skipping mentions used as an
// origin ("from Tel Aviv" is where the trip starts, not where it goes).
func parseDestination(lower string) string {
	for _, place := range knownPlaces {
		idx := strings.Index(lower, place)
		if idx < 0 {
			continue
		}
		if isOriginMention(lower, idx) {
			continue
		}
		return place
	}
	return ""
}

func isOriginMention(lower string, idx int) bool {
	prefix := lower[:idx]
	trimmed := strings.TrimRight(prefix, " ")
	return strings.HasSuffix(trimmed, "from")
}

func containsWord(haystack, word string) bool {
	idx := strings.Index(haystack, word)
	for idx >= 0 {
		before := idx == 0 || !isLetter(haystack[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(haystack) || !isLetter(haystack[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(haystack[idx+1:], word)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
