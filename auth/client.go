package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/mvaishya/tradejournal/session"
)

// Client calls the backend's authentication endpoints under /api/auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth client for the given backend base URL,
// e.g. "http://localhost:8081".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type authRequest struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

type googleLoginRequest struct {
	GoogleID string `json:"googleId"`
	Email    string `json:"email"`
}

// Register creates an account with the backend and returns the resulting
// user. The password is digested locally; only the hash is transmitted.
func (c *Client) Register(ctx context.Context, email, password string) (session.User, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// Login authenticates existing credentials and returns the resulting user.
func (c *Client) Login(ctx context.Context, email, password string) (session.User, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (session.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return session.User{}, err
	}

	body := authRequest{
		Email:        email,
		PasswordHash: HashPassword(password),
	}

	var resp authResponse
	if err := c.postJSON(ctx, path, body, &resp); err != nil {
		return session.User{}, err
	}

	if resp.UserID == "" {
		return session.User{}, &AuthError{Message: resp.Error}
	}

	// Mirror the federated shape: derive a display name from the email's
	// local part so the journal header always has something to show.
	return session.User{
		ID:         resp.UserID,
		Email:      email,
		Name:       strings.SplitN(email, "@", 2)[0],
		AuthMethod: session.MethodEmail,
	}, nil
}

// NotifyGoogleLogin records a federated login with the backend. It is
// best-effort: failures are logged and never block the login flow.
func (c *Client) NotifyGoogleLogin(ctx context.Context, googleID, email string) {
	body := googleLoginRequest{GoogleID: googleID, Email: email}
	if err := c.postJSON(ctx, "/api/auth/google-login", body, nil); err != nil {
		logrus.WithError(err).Warn("auth: could not record google login with backend")
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", ulid.Make().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "POST " + path, Err: err}
	}
	defer resp.Body.Close()

	// The backend reports credential problems inside the JSON body, so any
	// decodable body is handled by the caller regardless of status code.
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if resp.StatusCode != http.StatusOK {
				return &AuthError{Message: fmt.Sprintf("backend error (status %d)", resp.StatusCode)}
			}
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend error (status %d)", resp.StatusCode)
	}
	return nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return &ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}
