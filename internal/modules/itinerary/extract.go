package itinerary

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSON matches the first ```json block; the interior is non-greedy so a
// later fence in the same text is never swallowed.
var fencedJSON = regexp.MustCompile("```json\\n([\\s\\S]+?)\\n```")

// fencedBlock returns the interior of the first json fence in text.
func fencedBlock(text string) (string, bool) {
	m := fencedJSON.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Extract parses the first ```json fenced block of text into a generic value.
// A missing fence or invalid JSON is a miss, reported as (nil, false).
func Extract(text string) (any, bool) {
	_, v, ok := extractBlock(text)
	return v, ok
}

// extractBlock is Extract that also returns the fence interior as emitted.
func extractBlock(text string) (string, any, bool) {
	block, ok := fencedBlock(text)
	if !ok {
		return "", nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return "", nil, false
	}
	return block, v, true
}

// ExtractTrip decodes the first ```json fenced block of text into a GeneratedTrip.
func ExtractTrip(text string) (GeneratedTrip, bool) {
	block, ok := fencedBlock(text)
	if !ok {
		return GeneratedTrip{}, false
	}
	// Only an object can describe a trip; "null" or an array is a miss.
	if !strings.HasPrefix(strings.TrimSpace(block), "{") {
		return GeneratedTrip{}, false
	}
	var trip GeneratedTrip
	if err := json.Unmarshal([]byte(block), &trip); err != nil {
		return GeneratedTrip{}, false
	}
	return trip, true
}

// tripLocation finds the location object of a parsed itinerary and the
// geocoding query for it. ok is false when the detail names no city.
func tripLocation(detail any) (loc map[string]any, query string, ok bool) {
	obj, _ := detail.(map[string]any)
	loc, _ = obj["location"].(map[string]any)
	city, _ := loc["city"].(string)
	if strings.TrimSpace(city) == "" {
		return nil, "", false
	}
	query = city
	if country, _ := obj["country"].(string); country != "" {
		query += ", " + country
	}
	return loc, query, true
}
