package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// German statement exports format numbers with a period as thousands
// separator and a comma as decimal separator, and PDF extractions glue a
// currency sign onto the amount with a non-breaking space.

const nbsp = "\u00a0"

// ParseAmount coerces a German-locale amount string ("1.234,56", "-12,00",
// "27,10 €") into a signed float.
func ParseAmount(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, nbsp+"€")
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSuffix(s, nbsp)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("ParseAmount: empty amount %q", raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("ParseAmount: %q: %w", raw, err)
	}
	return v, nil
}

// ParseDayFirstDate parses a day-first numeric date like "02.01.2024".
func ParseDayFirstDate(s string) (civil.Date, error) {
	t, err := time.Parse("02.01.2006", strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("ParseDayFirstDate: %q: %w", s, err)
	}
	return civil.DateOf(t), nil
}

// germanMonths resolves the month names and abbreviations that appear in
// statement text, lower-cased and with any trailing period stripped.
var germanMonths = map[string]time.Month{
	"jan": time.January, "januar": time.January,
	"feb": time.February, "februar": time.February,
	"mär": time.March, "märz": time.March, "mrz": time.March,
	"apr": time.April, "april": time.April,
	"mai": time.May,
	"jun": time.June, "juni": time.June,
	"jul": time.July, "juli": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"okt": time.October, "oktober": time.October,
	"nov": time.November, "november": time.November,
	"dez": time.December, "dezember": time.December,
}

// ParseTextDate parses a free-text date split into its three tokens, e.g.
// ("02", "Feb.", "2024"). The day token comes first; when day and month are
// both numeric and ambiguous the day-first reading wins.
func ParseTextDate(dayTok, monthTok, yearTok string) (civil.Date, error) {
	day, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(dayTok), "."))
	if err != nil {
		return civil.Date{}, fmt.Errorf("ParseTextDate: day %q: %w", dayTok, err)
	}

	monKey := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(monthTok), "."))
	month, ok := germanMonths[monKey]
	if !ok {
		m, err := strconv.Atoi(monKey)
		if err != nil || m < 1 || m > 12 {
			return civil.Date{}, fmt.Errorf("ParseTextDate: month %q not recognized", monthTok)
		}
		month = time.Month(m)
	}

	year, err := strconv.Atoi(strings.TrimSpace(yearTok))
	if err != nil {
		return civil.Date{}, fmt.Errorf("ParseTextDate: year %q: %w", yearTok, err)
	}

	d := civil.Date{Year: year, Month: month, Day: day}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("ParseTextDate: %02d %s %d is not a valid date", day, monthTok, year)
	}
	return d, nil
}
