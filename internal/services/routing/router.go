// Package routing decides which downstream service answers a query.
package routing

import "strings"

// Destination identifies a downstream service.
type Destination string

const (
	DestinationEliza Destination = "eliza"
	DestinationTools Destination = "tools"
)

// toolsKeywords are the query terms that mark a tool-execution request.
var toolsKeywords = []string{
	"search", "find", "weather", "crypto", "price",
	"bitcoin", "telegram", "message", "binance", "market",
}

// Route classifies a query by case-insensitive substring match against
// the keyword set: any hit routes to Tools, otherwise Eliza. Pure and
// deterministic; the decision is always made on the raw user query, not
// the augmented prompt.
func Route(query string) Destination {
	q := strings.ToLower(query)
	for _, keyword := range toolsKeywords {
		if strings.Contains(q, keyword) {
			return DestinationTools
		}
	}
	return DestinationEliza
}
