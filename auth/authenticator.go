package auth

import (
	"context"

	"github.com/mvaishya/tradejournal/session"
)

// Authenticator is implemented by each supported login flow. Authenticate
// returns the user record to install as the current session.
type Authenticator interface {
	Authenticate(ctx context.Context) (session.User, error)
}

// EmailAuthenticator performs the email/password flow against the backend.
// Register selects the registration endpoint instead of login.
type EmailAuthenticator struct {
	Client   *Client
	Email    string
	Password string
	Register bool
}

func (a *EmailAuthenticator) Authenticate(ctx context.Context) (session.User, error) {
	if a.Register {
		return a.Client.Register(ctx, a.Email, a.Password)
	}
	return a.Client.Login(ctx, a.Email, a.Password)
}

// GoogleAuthenticator performs the federated flow: browser-mediated consent
// for a bearer token, a user-info fetch from the provider, and a best-effort
// notification to the backend.
type GoogleAuthenticator struct {
	Client *Client
	Config GoogleConfig

	// Overridable for tests; zero values use the real provider endpoints.
	token    func(ctx context.Context) (string, error)
	userInfo string
}

func (a *GoogleAuthenticator) Authenticate(ctx context.Context) (session.User, error) {
	tokenFn := a.token
	if tokenFn == nil {
		tokenFn = func(ctx context.Context) (string, error) {
			return consent(ctx, a.Config)
		}
	}
	endpoint := a.userInfo
	if endpoint == "" {
		endpoint = userInfoURL
	}

	accessToken, err := tokenFn(ctx)
	if err != nil {
		return session.User{}, err
	}

	info, err := FetchUserInfo(ctx, endpoint, accessToken)
	if err != nil {
		return session.User{}, err
	}

	// Record the login with our backend, but never let that block the flow.
	a.Client.NotifyGoogleLogin(ctx, info.Sub, info.Email)

	return session.User{
		ID:         info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		Picture:    info.Picture,
		AuthMethod: session.MethodGoogle,
	}, nil
}
