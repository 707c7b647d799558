// Package flow exercises the client end to end against an in-process fake
// of the journal backend: register/login, session persistence across
// restarts, journal CRUD through the view, and logout.
package flow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaishya/tradejournal/app"
	"github.com/mvaishya/tradejournal/auth"
	"github.com/mvaishya/tradejournal/journal"
	"github.com/mvaishya/tradejournal/session"
)

// fakeBackend is a minimal in-memory journal backend.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]string // email -> passwordHash
	nextUser int
	entries  map[int64]journal.Entry
	nextID   int64

	sawPlaintext bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    map[string]string{},
		nextUser: 41,
		entries:  map[int64]journal.Entry{},
		nextID:   6,
	}
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	authHandler := func(register bool) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Email        string `json:"email"`
				PasswordHash string `json:"passwordHash"`
				Password     string `json:"password"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			b.mu.Lock()
			defer b.mu.Unlock()
			if req.Password != "" {
				b.sawPlaintext = true
			}

			if register {
				b.users[req.Email] = req.PasswordHash
				b.nextUser++
				json.NewEncoder(w).Encode(map[string]string{"userId": strconv.Itoa(b.nextUser)})
				return
			}

			if hash, ok := b.users[req.Email]; !ok || hash != req.PasswordHash {
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"userId": strconv.Itoa(b.nextUser)})
		}
	}

	mux.HandleFunc("POST /api/auth/register", authHandler(true))
	mux.HandleFunc("POST /api/auth/login", authHandler(false))

	mux.HandleFunc("GET /api/journal/user/{userID}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []journal.Entry{}
		for _, e := range b.entries {
			if e.UserID == r.PathValue("userID") {
				out = append(out, e)
			}
		}
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("POST /api/journal", func(w http.ResponseWriter, r *http.Request) {
		var e journal.Entry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		b.mu.Lock()
		defer b.mu.Unlock()
		b.nextID++
		e.ID = b.nextID
		b.entries[e.ID] = e
		json.NewEncoder(w).Encode(e)
	})

	mux.HandleFunc("PUT /api/journal/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var e journal.Entry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.entries[id]; !ok {
			http.NotFound(w, r)
			return
		}
		e.ID = id
		b.entries[id] = e
		json.NewEncoder(w).Encode(e)
	})

	mux.HandleFunc("DELETE /api/journal/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.entries, id)
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func TestFullJourney(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	ctx := context.Background()
	sessionFile := filepath.Join(t.TempDir(), "session.json")
	store := session.NewStore(sessionFile)
	ctrl := session.NewController(store)
	authClient := auth.NewClient(server.URL)

	// Register, then sign in.
	_, err := authClient.Register(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	user, err := authClient.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "a", user.Name)
	assert.Equal(t, session.MethodEmail, user.AuthMethod)
	assert.False(t, backend.sawPlaintext, "plaintext password must never reach the backend")
	assert.Equal(t, auth.HashPassword("pw"), backend.users["a@b.com"])

	ctrl.Login(user)

	// "Reload the app": a fresh controller restores the session without any
	// network traffic.
	restored, ok := session.NewController(session.NewStore(sessionFile)).Current()
	require.True(t, ok)
	assert.Equal(t, user, restored)

	// Journal CRUD through the view.
	view := app.NewView(journal.NewClient(server.URL), nil, user.ID)
	require.NoError(t, view.Refresh(ctx))
	assert.Empty(t, view.Entries())

	require.NoError(t, view.NewEntry())
	form := view.Form()
	form.Symbol = "AAPL"
	form.EntryPrice = "150.5"
	form.PositionSize = "100"
	form.StopLoss = "abc" // degrades to 0, submission still goes through

	saved, err := view.Save(ctx)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, 0.0, saved.StopLoss)

	require.Len(t, view.Entries(), 1, "save returned to a refreshed list")

	// Close the trade via edit.
	require.NoError(t, view.Edit(saved.ID))
	view.Form().ExitTime = "2024-01-16T09:00"
	view.Form().ExitPrice = "155.25"
	updated, err := view.Save(ctx)
	require.NoError(t, err)
	require.NotNil(t, updated.ExitTime)

	// Delete drops it locally and it stays gone on the next refresh.
	require.NoError(t, view.Delete(ctx, saved.ID))
	assert.Empty(t, view.Entries())
	require.NoError(t, view.Refresh(ctx))
	assert.Empty(t, view.Entries())

	// Logout clears memory and disk; the next "reload" is unauthenticated.
	ctrl.Logout()
	_, ok = ctrl.Current()
	assert.False(t, ok)
	_, ok = session.NewController(session.NewStore(sessionFile)).Current()
	assert.False(t, ok)
}

func TestLoginRejectedLeavesSessionUntouched(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	ctx := context.Background()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	ctrl := session.NewController(store)
	authClient := auth.NewClient(server.URL)

	_, err := authClient.Register(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	_, err = authClient.Login(ctx, "a@b.com", "wrong")
	var authErr *auth.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials", authErr.Message)

	_, ok := ctrl.Current()
	assert.False(t, ok, "a rejected login must not create a session")
}

func TestEntryPrecisionSurvivesTheWire(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	ctx := context.Background()
	client := journal.NewClient(server.URL)

	created, err := client.Create(ctx, journal.Entry{
		UserID:       "42",
		EntryTime:    "2024-01-15T10:30",
		Symbol:       "AAPL",
		EntryPrice:   150.5,
		PositionSize: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.5, created.EntryPrice)
	assert.Equal(t, 100.0, created.PositionSize)
	assert.Nil(t, created.ExitTime)

	listed, err := client.List(ctx, "42")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 150.5, listed[0].EntryPrice)

	// Sanity-check the raw stored record too.
	raw, _ := json.Marshal(backend.entries[created.ID])
	assert.True(t, strings.Contains(string(raw), `"entry":150.5`),
		fmt.Sprintf("precision lost: %s", raw))
}
