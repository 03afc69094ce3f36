package dialog

import "fmt"

const (
	searchURLTemplate = "https://lets.travelwith.ai/%s/%s/"
	searchNotFound    = "Sorry, can't find the location!"
)

// SearchLink formats the flight-search URL for a departure/arrival code
// pair. Missing or equal codes yield the literal fallback, never a URL.
func SearchLink(departure, arrival string) string {
	if departure == "" || arrival == "" || departure == arrival {
		return searchNotFound
	}
	return fmt.Sprintf(searchURLTemplate, departure, arrival)
}
