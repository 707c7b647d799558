package journal

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes entries as CSV with a header row, preserving the order
// given.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "user_id", "entry_time", "symbol", "entry_price", "stop_loss",
		"position_size", "target", "trailing_stop", "exit_time", "exit_price",
		"pnl", "setup",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range entries {
		exitTime := ""
		if e.ExitTime != nil {
			exitTime = *e.ExitTime
		}
		cw.Write([]string{
			strconv.FormatInt(e.ID, 10),
			e.UserID,
			e.EntryTime,
			e.Symbol,
			f(e.EntryPrice),
			f(e.StopLoss),
			f(e.PositionSize),
			f(e.Target),
			f(e.TrailingStop),
			exitTime,
			f(e.ExitPrice),
			f(e.PnL),
			e.Setup,
		})
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
