package journal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"150.5", 150.5},
		{"100", 100},
		{"-3.25", -3.25},
		{"1e3", 1000},
		{" 42 ", 42},
		{"12abc", 12}, // longest numeric prefix, parseFloat-style
		{"abc", 0},
		{"", 0},
		{".", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func TestNullableTime(t *testing.T) {
	assert.Nil(t, NullableTime(""))
	assert.Nil(t, NullableTime("   "))

	got := NullableTime("2024-01-15T10:30")
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-15T10:30", *got)
}

func TestEntry_BlankExitTimeMarshalsAsNull(t *testing.T) {
	e := Entry{
		UserID:       "42",
		EntryTime:    "2024-01-15T10:30",
		Symbol:       "AAPL",
		EntryPrice:   150.5,
		PositionSize: 100,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"exitTime":null`)
	assert.NotContains(t, string(data), `"exitTime":""`)
}

func TestEntry_NumericPrecisionRoundTrip(t *testing.T) {
	e := Entry{
		UserID:       "42",
		EntryTime:    "2024-01-15T10:30",
		Symbol:       "AAPL",
		EntryPrice:   150.5,
		PositionSize: 100,
		StopLoss:     148.375,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var back Entry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 150.5, back.EntryPrice)
	assert.Equal(t, 100.0, back.PositionSize)
	assert.Equal(t, 148.375, back.StopLoss)
	assert.Nil(t, back.ExitTime)
}

func TestEntry_Closed(t *testing.T) {
	assert.False(t, Entry{}.Closed())

	exit := "2024-01-16T09:00"
	assert.True(t, Entry{ExitTime: &exit}.Closed())

	blank := ""
	assert.False(t, Entry{ExitTime: &blank}.Closed())
}
