package journal

import (
	"strconv"
	"strings"
)

// Entry is a single recorded trade as the backend stores it. IDs are
// server-assigned on create. ExitTime stays null until the trade is closed;
// a blank exit time is transmitted as JSON null, never as "".
type Entry struct {
	ID           int64   `json:"id,omitempty"`
	UserID       string  `json:"userId"`
	EntryTime    string  `json:"entryTime"`
	Symbol       string  `json:"symbol"`
	EntryPrice   float64 `json:"entry"`
	StopLoss     float64 `json:"stopLoss"`
	PositionSize float64 `json:"positionSize"`
	Target       float64 `json:"target"`
	TrailingStop float64 `json:"trailingStop"`
	ExitTime     *string `json:"exitTime"`
	ExitPrice    float64 `json:"exit"`
	PnL          float64 `json:"pnl"`
	Setup        string  `json:"setup"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// Closed reports whether the trade has been exited.
func (e Entry) Closed() bool {
	return e.ExitTime != nil && *e.ExitTime != ""
}

// ParseAmount coerces a form field to a float64 with parseFloat semantics:
// the longest leading numeric prefix is used, and anything unparsable
// becomes 0 rather than an error.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for i := 1; i <= len(s); i++ {
		if _, err := strconv.ParseFloat(s[:i], 64); err == nil {
			end = i
		}
	}
	if end == 0 {
		return 0
	}
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}

// NullableTime maps a blank timestamp to nil so it serializes as JSON null.
func NullableTime(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
