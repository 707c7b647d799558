package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaishya/tradejournal/cache"
	"github.com/mvaishya/tradejournal/journal"
)

func TestForm_ToEntry(t *testing.T) {
	f := Form{
		EntryTime:    "2024-01-15T10:30",
		Symbol:       "AAPL",
		EntryPrice:   "150.5",
		StopLoss:     "abc",
		PositionSize: "100",
		Target:       "160",
		ExitTime:     "",
		PnL:          "",
		Setup:        "gap and go",
	}

	e, err := f.ToEntry("42")
	require.NoError(t, err)

	assert.Equal(t, "42", e.UserID)
	assert.Equal(t, 150.5, e.EntryPrice)
	assert.Equal(t, 0.0, e.StopLoss, "unparsable numeric defaults to zero")
	assert.Equal(t, 100.0, e.PositionSize)
	assert.Equal(t, 160.0, e.Target)
	assert.Nil(t, e.ExitTime, "blank exit time becomes null")
	assert.Equal(t, 0.0, e.PnL)
	assert.Equal(t, "gap and go", e.Setup)
}

func TestForm_RequiredFields(t *testing.T) {
	base := Form{
		EntryTime:    "2024-01-15T10:30",
		Symbol:       "AAPL",
		EntryPrice:   "150.5",
		PositionSize: "100",
	}

	tests := []struct {
		name  string
		mut   func(*Form)
		field string
	}{
		{"entry time", func(f *Form) { f.EntryTime = "" }, "entry time"},
		{"symbol", func(f *Form) { f.Symbol = "" }, "symbol"},
		{"entry price", func(f *Form) { f.EntryPrice = "" }, "entry price"},
		{"position size", func(f *Form) { f.PositionSize = "" }, "position size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mut(&f)

			_, err := f.ToEntry("42")
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestForm_RoundTripFromEntry(t *testing.T) {
	exit := "2024-01-16T09:00"
	e := journal.Entry{
		ID: 7, UserID: "42", EntryTime: "2024-01-15T10:30", Symbol: "AAPL",
		EntryPrice: 150.5, PositionSize: 100, ExitTime: &exit, ExitPrice: 155.25,
		PnL: 475, Setup: "breakout",
	}

	got, err := formFromEntry(e).ToEntry("42")
	require.NoError(t, err)

	got.ID = e.ID // ids come from the edit target, not the form
	assert.Equal(t, e, got)
}

func TestView_MirrorsListToCache(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	defer c.Close()

	gw := &fakeGateway{listFn: listOf(
		journal.Entry{ID: 1, UserID: "42", EntryTime: "t", Symbol: "AAPL", EntryPrice: 150.5, PositionSize: 100},
	)}
	v := NewView(gw, c, "42")

	require.NoError(t, v.Refresh(context.Background()))

	cached, err := v.Cached()
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "AAPL", cached[0].Symbol)
}
