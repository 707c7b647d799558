package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvaishya/tradejournal/app"
	"github.com/mvaishya/tradejournal/cache"
	"github.com/mvaishya/tradejournal/config"
	"github.com/mvaishya/tradejournal/journal"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Create, list, edit and delete journal entries",
	Long: `Work with your trade-journal entries on the backend.

Subcommands:
  list   - List your entries (cached copy when the backend is down)
  add    - Create a new entry
  edit   - Edit an existing entry by id
  delete - Delete an entry by id
  export - Export your entries to CSV

Examples:
  tradejournal entry list
  tradejournal entry add --symbol AAPL --entry 150.5 --size 100
  tradejournal entry delete 7`,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your journal entries",
	Args:  cobra.NoArgs,
	RunE:  runEntryList,
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new journal entry",
	Args:  cobra.NoArgs,
	RunE:  runEntryAdd,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing journal entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryEdit,
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryDelete,
}

var entryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your journal entries to CSV",
	Args:  cobra.NoArgs,
	RunE:  runEntryExport,
}

var (
	entryTime    string
	entrySymbol  string
	entryPrice   string
	entryStop    string
	entrySize    string
	entryTarget  string
	entryTrail   string
	entryExitAt  string
	entryExit    string
	entryPnL     string
	entrySetup   string
	deleteYes    bool
	exportOutput string
)

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	entryCmd.AddCommand(entryExportCmd)

	for _, c := range []*cobra.Command{entryAddCmd, entryEditCmd} {
		c.Flags().StringVar(&entryTime, "time", "", "entry time (YYYY-MM-DDTHH:MM, defaults to now on add)")
		c.Flags().StringVar(&entrySymbol, "symbol", "", "ticker symbol (e.g. AAPL)")
		c.Flags().StringVar(&entryPrice, "entry", "", "entry price")
		c.Flags().StringVar(&entryStop, "stop", "", "stop-loss price")
		c.Flags().StringVar(&entrySize, "size", "", "position size")
		c.Flags().StringVar(&entryTarget, "target", "", "target price")
		c.Flags().StringVar(&entryTrail, "trail", "", "trailing-stop price")
		c.Flags().StringVar(&entryExitAt, "exit-time", "", "exit time (blank while the trade is open)")
		c.Flags().StringVar(&entryExit, "exit", "", "exit price")
		c.Flags().StringVar(&entryPnL, "pnl", "", "realized profit/loss")
		c.Flags().StringVar(&entrySetup, "setup", "", "setup / notes")
	}

	entryDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	entryExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

// openView wires the journal gateway, local cache and view for the signed-in
// user. The returned cleanup closes the cache.
func openView(cfg *config.Config) (*app.View, func(), error) {
	user, err := requireUser(newController(cfg))
	if err != nil {
		return nil, nil, err
	}

	var c *cache.Cache
	if cfg.Cache.DBPath != "" {
		c, err = cache.Open(cfg.Cache.DBPath)
		if err != nil {
			// The cache is an optional mirror; keep going without it.
			logrus.WithError(err).Warn("could not open entry cache")
			c = nil
		}
	}

	view := app.NewView(journal.NewClient(cfg.API.BaseURL), c, user.ID)
	cleanup := func() {
		if c != nil {
			c.Close()
		}
	}
	return view, cleanup, nil
}

func runEntryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view, cleanup, err := openView(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := view.Refresh(cmd.Context()); err != nil {
		cached, cacheErr := view.Cached()
		if cacheErr != nil {
			return err
		}
		logrus.WithError(err).Warn("backend unreachable, showing cached entries")
		printEntries(cached)
		return nil
	}

	printEntries(view.Entries())
	return nil
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view, cleanup, err := openView(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := view.NewEntry(); err != nil {
		return err
	}
	fillForm(cmd, view.Form())

	saved, err := view.Save(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created entry %d (%s)\n", saved.ID, saved.Symbol)
	return nil
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view, cleanup, err := openView(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// The form pre-fills from the listed entry, so fetch the list first.
	if err := view.Refresh(cmd.Context()); err != nil {
		return err
	}
	if err := view.Edit(id); err != nil {
		return err
	}
	fillForm(cmd, view.Form())

	saved, err := view.Save(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated entry %d (%s)\n", saved.ID, saved.Symbol)
	return nil
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view, cleanup, err := openView(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if !deleteYes && !confirm(fmt.Sprintf("Delete entry %d?", id)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := view.Delete(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted entry %d\n", id)
	return nil
}

func runEntryExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	view, cleanup, err := openView(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var entries []journal.Entry
	if err := view.Refresh(cmd.Context()); err != nil {
		cached, cacheErr := view.Cached()
		if cacheErr != nil {
			return err
		}
		logrus.WithError(err).Warn("backend unreachable, exporting cached entries")
		entries = cached
	} else {
		entries = view.Entries()
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := journal.WriteCSV(out, entries); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOutput != "" {
		fmt.Printf("✓ Exported %d entries to %s\n", len(entries), exportOutput)
	}
	return nil
}

// fillForm copies only the flags the user actually set, so edits keep the
// pre-filled values for everything else.
func fillForm(cmd *cobra.Command, form *app.Form) {
	set := func(name string, dst *string, val string) {
		if cmd.Flags().Changed(name) {
			*dst = val
		}
	}
	set("time", &form.EntryTime, entryTime)
	set("symbol", &form.Symbol, entrySymbol)
	set("entry", &form.EntryPrice, entryPrice)
	set("stop", &form.StopLoss, entryStop)
	set("size", &form.PositionSize, entrySize)
	set("target", &form.Target, entryTarget)
	set("trail", &form.TrailingStop, entryTrail)
	set("exit-time", &form.ExitTime, entryExitAt)
	set("exit", &form.ExitPrice, entryExit)
	set("pnl", &form.PnL, entryPnL)
	set("setup", &form.Setup, entrySetup)
}

func printEntries(entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Println("No journal entries yet. Create one with 'tradejournal entry add'.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSYMBOL\tENTRY\tSTOP\tSIZE\tTARGET\tEXIT\tP/L\tSETUP")
	for _, e := range entries {
		exit := "open"
		if e.Closed() {
			exit = fmt.Sprintf("%.2f @ %s", e.ExitPrice, *e.ExitTime)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%+.2f\t%s\n",
			e.ID, e.EntryTime, e.Symbol, e.EntryPrice, e.StopLoss,
			e.PositionSize, e.Target, exit, e.PnL, e.Setup)
	}
	w.Flush()
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
