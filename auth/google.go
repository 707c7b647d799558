package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	userInfoURL    = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleConfig holds the public OAuth application identifiers. These are not
// secrets but must come from configuration, never source literals.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectPort int
}

// UserInfo is the subset of the provider's user-info response we consume.
type UserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// FetchUserInfo exchanges a bearer access token for the provider's profile
// fields at the given user-info endpoint.
func FetchUserInfo(ctx context.Context, endpoint, accessToken string) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return UserInfo{}, &NetworkError{Op: "GET userinfo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, &ProviderError{
			Stage: "userinfo",
			Err:   fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserInfo{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return UserInfo{}, &ProviderError{Stage: "userinfo", Err: errors.New("response has no subject id")}
	}
	return info, nil
}

// consent runs the browser-mediated OAuth flow: it serves a loopback
// redirect endpoint, prints the consent URL for the user's browser, and
// exchanges the returned code for a bearer access token.
func consent(ctx context.Context, cfg GoogleConfig) (string, error) {
	if cfg.ClientID == "" {
		return "", &ProviderError{Stage: "setup", Err: errors.New("google client id is not configured")}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", cfg.RedirectPort))
	if err != nil {
		return "", &ProviderError{Stage: "listen", Err: err}
	}
	defer ln.Close()

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
		RedirectURL: fmt.Sprintf("http://%s/callback", ln.Addr().String()),
		Scopes:      []string{"openid", "email", "profile"},
	}

	state := ulid.Make().String()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			errCh <- errors.New("state mismatch")
			http.Error(w, "state mismatch", http.StatusBadRequest)
		case q.Get("error") != "":
			errCh <- errors.New(q.Get("error"))
			fmt.Fprintln(w, "Login cancelled. You can close this window.")
		default:
			codeCh <- q.Get("code")
			fmt.Fprintln(w, "Login complete. You can close this window.")
		}
	})

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Close()

	fmt.Println("Open this URL in your browser to sign in with Google:")
	fmt.Println("  " + conf.AuthCodeURL(state))

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return "", &ProviderError{Stage: "consent", Err: err}
	case <-ctx.Done():
		return "", &ProviderError{Stage: "consent", Err: ctx.Err()}
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", &ProviderError{Stage: "exchange", Err: err}
	}

	logrus.Debug("auth: google consent flow completed")
	return tok.AccessToken, nil
}
