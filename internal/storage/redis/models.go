package redis

import "time"

// SelectionState is a visitor's calculator state as stored in Redis.
type SelectionState struct {
	CleaningType string `json:"cleaning_type"`
	Frequency    string `json:"frequency"`
	// HomeSize keeps the raw text the visitor typed.
	HomeSize string `json:"home_size"`

	Price         *int      `json:"price,omitempty"`
	QuoteRequired bool      `json:"quote_required,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
