package models

import "time"

// QuoteRequest asks for a fare estimate between two points. RequestedAt is
// optional; a nil value means "now".
type QuoteRequest struct {
	Pickup      Coordinate `json:"pickup"`
	Dropoff     Coordinate `json:"dropoff"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
}
