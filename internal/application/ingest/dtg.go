package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dtgPattern matches the military date-time group "DDHHMMZ MON YY",
// e.g. "150630Z JUN 25".
var dtgPattern = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z\s+([A-Z]{3})\s+(\d{2})$`)

var monthByAbbrev = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// ParseDTG parses a "DDHHMMZ MON YY" date-time group into a UTC instant.
func ParseDTG(dtg string) (time.Time, error) {
	m := dtgPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(dtg)))
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid DTG %q", dtg)
	}

	day, _ := strconv.Atoi(m[1])
	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])
	month, ok := monthByAbbrev[m[4]]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid DTG month %q", m[4])
	}
	year, _ := strconv.Atoi(m[5])
	year += 2000

	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid DTG day %d for %s %d", day, m[4], year)
	}
	return t, nil
}

// DTGToTrigger converts a DTG into the (triggerDay, triggerHour) pair an
// inject is keyed on: day relative to scenario start (1-based) and UTC
// hour.
func DTGToTrigger(dtg string, scenarioStart time.Time) (int, int, error) {
	t, err := ParseDTG(dtg)
	if err != nil {
		return 0, 0, err
	}
	day := int(t.Sub(scenarioStart.UTC().Truncate(24*time.Hour)).Hours()/24) + 1
	if day < 1 {
		day = 1
	}
	return day, t.Hour(), nil
}
