// Package parse defines the free-text activity parsing contract. Smart
// paste, voice planning and mailbox scanning all feed through this interface;
// none of them are implemented yet, so the only implementation is a stub that
// reports zero confidence for every input.
package parse

import "context"

// Result is the structured interpretation of a free-text activity
// description. Confidence 0 means the parser extracted nothing usable.
type Result struct {
	PersonID     int     `json:"person_id"`
	PersonName   string  `json:"person_name"`
	Date         string  `json:"date"` // YYYY-MM-DD
	DayName      string  `json:"day_name"`
	Time         string  `json:"time"` // HH:MM
	Title        string  `json:"title"`
	ActivityType string  `json:"activity_type"`
	Confidence   float64 `json:"confidence"`
}

// Parser extracts activity details from free text.
type Parser interface {
	Parse(ctx context.Context, text string) (Result, error)
}

// NoopParser is the placeholder implementation used until a real parser
// exists. It always returns an empty, zero-confidence result.
type NoopParser struct{}

// Parse returns a zero-confidence empty result for any input.
func (NoopParser) Parse(ctx context.Context, text string) (Result, error) {
	return Result{}, nil
}
