package session

import "github.com/sirupsen/logrus"

// Controller owns the in-memory current user and is the single read/write
// path for session state. It restores any persisted session at construction
// without contacting the backend; authentication results are pushed in via
// Login by whichever auth flow produced them.
type Controller struct {
	store   *Store
	current *User
}

// NewController builds a controller and restores a persisted session if one
// exists.
func NewController(store *Store) *Controller {
	c := &Controller{store: store}
	if u, ok := store.Load(); ok {
		logrus.WithField("user", u.ID).Debug("session: restored from storage")
		c.current = &u
	}
	return c
}

// Current returns the authenticated user, or false when unauthenticated.
func (c *Controller) Current() (User, bool) {
	if c.current == nil {
		return User{}, false
	}
	return *c.current, true
}

// Login installs the user as the current session and persists it.
func (c *Controller) Login(u User) {
	c.current = &u
	c.store.Save(u)
}

// Logout clears the in-memory session and persistent storage.
func (c *Controller) Logout() {
	c.current = nil
	c.store.Clear()
}
