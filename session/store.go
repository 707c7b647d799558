package session

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
)

// Store persists a single User record as JSON in one file. It never returns
// errors: a failed Load degrades to "no session", a failed Save or Clear is
// logged and becomes a no-op. Callers must treat the store as best-effort.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save serializes the user and writes it to the session file.
func (s *Store) Save(u User) {
	data, err := json.Marshal(u)
	if err != nil {
		logrus.WithError(err).Warn("session: failed to serialize user")
		return
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		logrus.WithError(err).Warn("session: failed to save user")
	}
}

// Load returns the stored user, or false if no session exists or the stored
// record cannot be read or parsed.
func (s *Store) Load() (User, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("session: failed to read session file")
		}
		return User{}, false
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		logrus.WithError(err).Warn("session: stored session is corrupted, ignoring")
		return User{}, false
	}
	if u.ID == "" {
		return User{}, false
	}
	return u, true
}

// Clear removes the session file.
func (s *Store) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("session: failed to clear session file")
	}
}
