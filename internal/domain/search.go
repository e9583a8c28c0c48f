package domain

import "strings"

// Search returns the locations whose name or address contains query,
// ignoring case. An empty query matches everything.
func Search(locations []Location, query string) []Location {
	q := strings.ToLower(query)
	out := make([]Location, 0, len(locations))
	for _, loc := range locations {
		if q == "" ||
			strings.Contains(strings.ToLower(loc.Name), q) ||
			strings.Contains(strings.ToLower(loc.Address), q) {
			out = append(out, loc)
		}
	}
	return out
}
