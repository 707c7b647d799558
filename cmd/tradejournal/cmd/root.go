package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvaishya/tradejournal/config"
	"github.com/mvaishya/tradejournal/session"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading-journal client for the journal backend API",
	Long: `Tradejournal is a client for a remote trading-journal backend.

It provides tools for:
  - Signing in with email/password or a Google account
  - Creating, listing, editing and deleting journal entries
  - Keeping a local offline cache of your entry list
  - Exporting your journal to CSV

Sessions persist locally between runs; sign in once and keep journaling.`,
}

var (
	cfgFile string
	verbose bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default built-in defaults plus environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
}

// loadConfig resolves the active configuration: the --config file when
// given, otherwise defaults overlaid with the environment.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}

	cfg := config.Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newController opens the persistent session store, creating its directory
// if needed, and restores any saved session.
func newController(cfg *config.Config) *session.Controller {
	if dir := filepath.Dir(cfg.Session.File); dir != "." {
		_ = os.MkdirAll(dir, 0700)
	}
	return session.NewController(session.NewStore(cfg.Session.File))
}

// requireUser returns the current user or an error telling the caller to
// sign in first.
func requireUser(ctrl *session.Controller) (session.User, error) {
	u, ok := ctrl.Current()
	if !ok {
		return session.User{}, fmt.Errorf("not signed in, run 'tradejournal login' first")
	}
	return u, nil
}
