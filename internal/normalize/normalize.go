// Package normalize repairs and canonicalizes the raw JSON extracted by the
// vision model: amounts become fixed two-decimal strings, dates become
// dd/mm/yyyy, and prose-wrapped JSON is recovered when possible.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedResponse marks model output that is not recoverable as JSON.
var ErrMalformedResponse = errors.New("malformed model response")

// RepairJSON parses text purported to contain a JSON object. If the direct
// parse fails it retries on the substring between the first '{' and the last
// '}', which recovers JSON wrapped in prose or markdown fences. No further
// heuristics are attempted.
func RepairJSON(text string) (map[string]any, error) {
	trimmed := strings.TrimSpace(text)

	var m map[string]any
	if err := json.Unmarshal([]byte(trimmed), &m); err == nil {
		return m, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return m, nil
}

// Amount converts a free-text soles amount into a canonical two-decimal
// string. Returns nil when the input is empty or unparseable; it never fails
// the request.
func Amount(s string) *string {
	raw := stripCurrencyMarkers(s)
	if raw == "" {
		return nil
	}
	raw = normalizeSeparators(raw)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	out := fmt.Sprintf("%.2f", f)
	return &out
}

var (
	nonAmountChars = regexp.MustCompile(`[^0-9,.]`)
	digitGroups    = regexp.MustCompile(`[0-9]+`)
)

// AmountValue is the numeric variant used by the cancellation (tacha)
// pipeline: it strips everything but digits and separators, collapses stray
// periods, and defaults to 0.0 on failure.
func AmountValue(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	// "S/." would leave a stray period behind after the character strip.
	raw := strings.ReplaceAll(s, "S/.", "S/")
	raw = strings.ReplaceAll(raw, "s/.", "s/")
	raw = nonAmountChars.ReplaceAllString(raw, "")
	raw = normalizeSeparators(raw)
	if strings.Count(raw, ".") > 1 {
		groups := digitGroups.FindAllString(raw, -1)
		if len(groups) >= 2 {
			raw = groups[0] + "." + groups[1]
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return math.Round(f*100) / 100
}

func stripCurrencyMarkers(s string) string {
	raw := strings.ToUpper(strings.TrimSpace(s))
	raw = strings.ReplaceAll(raw, "S/.", "")
	raw = strings.ReplaceAll(raw, "S/", "")
	raw = strings.ReplaceAll(raw, "SOLES", "")
	return strings.ReplaceAll(raw, " ", "")
}

// normalizeSeparators resolves comma/period ambiguity: "1.234,56" and
// "1,234.56" both end up "1234.56"; "320,00" becomes "320.00". With a single
// comma the mark appearing last is taken as the decimal separator.
func normalizeSeparators(raw string) string {
	commas := strings.Count(raw, ",")
	periods := strings.Count(raw, ".")
	switch {
	case commas == 1 && periods >= 1:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case commas == 1 && periods == 0:
		raw = strings.Replace(raw, ",", ".", 1)
	default:
		raw = strings.ReplaceAll(raw, ",", "")
	}
	return raw
}

var months = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
}

var (
	longDateRx    = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([a-záéíóú]+)\s+de\s+(\d{4})`)
	numericDateRx = regexp.MustCompile(`(\d{1,2})[/\-. ](\d{1,2})[/\-. ](\d{2,4})`)
)

// Date converts a free-text date into dd/mm/yyyy. It tries the Spanish long
// form ("24 de Octubre de 2025") first, then a numeric day-month-year pattern
// with two-digit year expansion. Returns nil when nothing matches or the
// matched values are not a real calendar date.
func Date(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if m := longDateRx.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[3])
		if mn, ok := months[strings.ToLower(m[2])]; ok && validDate(y, mn, d) {
			return formatDate(d, mn, y)
		}
		// fall through, the numeric pattern may still match
	}

	if m := numericDateRx.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mn, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if y < 50 {
				y += 2000
			} else {
				y += 1900
			}
		}
		if validDate(y, mn, d) {
			return formatDate(d, mn, y)
		}
	}
	return nil
}

func validDate(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 || d > 31 || y < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

func formatDate(d, m, y int) *string {
	out := fmt.Sprintf("%02d/%02d/%04d", d, m, y)
	return &out
}
