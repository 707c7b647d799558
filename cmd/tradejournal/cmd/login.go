package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mvaishya/tradejournal/auth"
	"github.com/mvaishya/tradejournal/config"
	"github.com/mvaishya/tradejournal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email/password or a Google account",
	Long: `Authenticate against the journal backend and persist the session.

With -e/--email the password is prompted for (or taken from --password) and
only its SHA-256 digest is sent to the backend. With --google a browser
consent URL is printed; completing it signs you in with your Google account.

Examples:
  tradejournal login -e trader@example.com
  tradejournal login --google`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a backend account with email and password",
	Long: `Register a new account with the journal backend and sign in.

Example:
  tradejournal register -e trader@example.com`,
	RunE: runRegister,
}

var (
	loginEmail    string
	loginPassword string
	loginGoogle   bool
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginGoogle, "google", false, "sign in with Google instead of email/password")

	registerCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email address")
	registerCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	return authenticate(cmd, false)
}

func runRegister(cmd *cobra.Command, args []string) error {
	return authenticate(cmd, true)
}

func authenticate(cmd *cobra.Command, register bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctrl := newController(cfg)
	client := auth.NewClient(cfg.API.BaseURL)

	var authenticator auth.Authenticator
	if loginGoogle && !register {
		authenticator = &auth.GoogleAuthenticator{
			Client: client,
			Config: auth.GoogleConfig{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				RedirectPort: cfg.Google.RedirectPort,
			},
		}
	} else {
		if loginPassword == "" {
			loginPassword, err = promptPassword()
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
		}
		authenticator = &auth.EmailAuthenticator{
			Client:   client,
			Email:    loginEmail,
			Password: loginPassword,
			Register: register,
		}
	}

	user, err := authenticator.Authenticate(cmd.Context())
	if err != nil {
		return err
	}

	ctrl.Login(user)
	printWelcome(user, cfg)
	return nil
}

func printWelcome(u session.User, cfg *config.Config) {
	name := u.Name
	if name == "" {
		name = u.Email
	}
	fmt.Printf("✓ Signed in as %s (%s)\n", name, u.Email)
	fmt.Printf("\nOpen your %s with:\n", cfg.PostLoginView)
	fmt.Println("  tradejournal entry list")
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Piped stdin (tests, scripts): read one line.
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
