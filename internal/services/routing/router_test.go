package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		query string
		want  Destination
	}{
		{"What's the weather?", DestinationTools},
		{"Tell me a joke", DestinationEliza},
		{"current BITCOIN price", DestinationTools},
		{"send a Telegram message", DestinationTools},
		{"how is the market doing", DestinationTools},
		{"search for golang tutorials", DestinationTools},
		{"find my keys", DestinationTools},
		{"crypto outlook", DestinationTools},
		{"binance listing", DestinationTools},
		{"how are you today", DestinationEliza},
		{"", DestinationEliza},
		// Substring matches count, even inside words.
		{"the weatherman said so", DestinationTools},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Route(tt.query), "query: %q", tt.query)
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, DestinationTools, Route("weather"))
		assert.Equal(t, DestinationEliza, Route("hello"))
	}
}
