package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mvaishya/tradejournal/journal"
)

// Form holds the create/edit fields as entered, before coercion. Numeric
// fields stay strings here so unparsable input can degrade to zero at
// submission instead of blocking it.
type Form struct {
	EntryTime    string
	Symbol       string
	EntryPrice   string
	StopLoss     string
	PositionSize string
	Target       string
	TrailingStop string
	ExitTime     string
	ExitPrice    string
	PnL          string
	Setup        string
}

// ValidationError reports a required form field that is missing.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// newForm returns a form for a fresh entry, stamped with the current time in
// the backend's minute-precision format.
func newForm() Form {
	return Form{
		EntryTime: time.Now().Format("2006-01-02T15:04"),
	}
}

func formFromEntry(e journal.Entry) Form {
	exitTime := ""
	if e.ExitTime != nil {
		exitTime = *e.ExitTime
	}
	return Form{
		EntryTime:    e.EntryTime,
		Symbol:       e.Symbol,
		EntryPrice:   num(e.EntryPrice),
		StopLoss:     num(e.StopLoss),
		PositionSize: num(e.PositionSize),
		Target:       num(e.Target),
		TrailingStop: num(e.TrailingStop),
		ExitTime:     exitTime,
		ExitPrice:    num(e.ExitPrice),
		PnL:          num(e.PnL),
		Setup:        e.Setup,
	}
}

// ToEntry validates the required fields and coerces the rest. Optional
// numerics default to zero when unparsable; a blank exit time becomes null.
func (f Form) ToEntry(userID string) (journal.Entry, error) {
	switch {
	case f.EntryTime == "":
		return journal.Entry{}, &ValidationError{Field: "entry time"}
	case f.Symbol == "":
		return journal.Entry{}, &ValidationError{Field: "symbol"}
	case f.EntryPrice == "":
		return journal.Entry{}, &ValidationError{Field: "entry price"}
	case f.PositionSize == "":
		return journal.Entry{}, &ValidationError{Field: "position size"}
	}

	return journal.Entry{
		UserID:       userID,
		EntryTime:    f.EntryTime,
		Symbol:       f.Symbol,
		EntryPrice:   journal.ParseAmount(f.EntryPrice),
		StopLoss:     journal.ParseAmount(f.StopLoss),
		PositionSize: journal.ParseAmount(f.PositionSize),
		Target:       journal.ParseAmount(f.Target),
		TrailingStop: journal.ParseAmount(f.TrailingStop),
		ExitTime:     journal.NullableTime(f.ExitTime),
		ExitPrice:    journal.ParseAmount(f.ExitPrice),
		PnL:          journal.ParseAmount(f.PnL),
		Setup:        f.Setup,
	}, nil
}

func num(x float64) string {
	if x == 0 {
		return ""
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
