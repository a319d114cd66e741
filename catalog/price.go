package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agrokart/storefront/core"
)

// The numeric price is canonical; the rupee-formatted string exists
// for display only. ParsePrice and FormatPrice are the single
// conversion boundary between the two forms - formatted strings must
// never be fed back into arithmetic except through ParsePrice.

// ParsePrice converts a display price such as "₹1,23,456.50" back to
// its numeric value. It strips the rupee symbol, thousands separators
// and surrounding whitespace. An empty string parses to 0.
func ParsePrice(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed price %q: %w", s, core.ErrInvalidInput)
	}
	return v, nil
}

// FormatPrice renders a numeric price for display with the rupee
// symbol and Indian digit grouping (₹1,23,456). Whole amounts carry no
// decimals; fractional amounts keep two.
func FormatPrice(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	v = math.Round(v*100) / 100

	whole := math.Floor(v)
	cents := int(math.Round((v - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	out := "₹" + groupIndian(strconv.FormatFloat(whole, 'f', 0, 64))
	if cents > 0 {
		out = fmt.Sprintf("%s.%02d", out, cents)
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupIndian inserts commas in the Indian numbering style: the last
// three digits form one group, every two digits before that form
// another (12,34,567).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}
