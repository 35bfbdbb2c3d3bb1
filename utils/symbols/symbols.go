package symbols

import (
	"sort"
	"strings"
)

// Normalize trims and uppercases a ticker symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Normalized drops empties and duplicates, keeping first-seen order.
func Normalized(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		symbol := Normalize(value)
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		result = append(result, symbol)
	}
	return result
}

// Parse splits a comma separated list such as "aapl, msft".
func Parse(raw string) []string {
	if raw == "" {
		return nil
	}
	return Normalized(strings.Split(raw, ","))
}

func Set(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, symbol := range Normalized(values) {
		set[symbol] = struct{}{}
	}
	return set
}

func Sorted(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for symbol := range set {
		result = append(result, symbol)
	}
	sort.Strings(result)
	return result
}
