// Package app drives the journal view: a state machine over Listing,
// Creating and Editing that mediates between user actions and the journal
// gateway. Mutations are serialized by a busy flag and every return to
// Listing re-fetches the list so the display always reflects the backend.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mvaishya/tradejournal/cache"
	"github.com/mvaishya/tradejournal/journal"
)

// State is the journal view's current mode.
type State int

const (
	Listing State = iota
	Creating
	Editing
)

func (s State) String() string {
	switch s {
	case Listing:
		return "listing"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrBusy is returned when a mutation is requested while another is still
// in flight.
var ErrBusy = errors.New("another request is in flight")

// Gateway is the slice of the journal client the view depends on.
type Gateway interface {
	List(ctx context.Context, userID string) ([]journal.Entry, error)
	Create(ctx context.Context, e journal.Entry) (journal.Entry, error)
	Update(ctx context.Context, id int64, e journal.Entry) (journal.Entry, error)
	Delete(ctx context.Context, id int64) error
}

// View orchestrates the entry list and the create/edit form for one user.
type View struct {
	gw     Gateway
	cache  *cache.Cache // optional write-through mirror
	userID string

	state   State
	entries []journal.Entry
	form    Form
	editID  int64

	busy    bool
	listGen uint64
}

// NewView builds a view in the Listing state. cache may be nil.
func NewView(gw Gateway, c *cache.Cache, userID string) *View {
	return &View{gw: gw, cache: c, userID: userID, state: Listing}
}

func (v *View) State() State             { return v.state }
func (v *View) Entries() []journal.Entry { return v.entries }

// Form returns the open create/edit form for the caller to fill in.
func (v *View) Form() *Form { return &v.form }

// Refresh re-fetches the entry list from the backend. Each call bumps the
// fetch generation; a result that comes back after a newer fetch started is
// discarded so it cannot overwrite fresher state.
func (v *View) Refresh(ctx context.Context) error {
	v.listGen++
	gen := v.listGen

	entries, err := v.gw.List(ctx, v.userID)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	if gen != v.listGen {
		logrus.WithField("generation", gen).Debug("view: discarding stale list result")
		return nil
	}

	v.entries = entries
	v.mirror(entries)
	return nil
}

// Cached returns the last mirrored list for this user from the local cache,
// for display when the backend is unreachable.
func (v *View) Cached() ([]journal.Entry, error) {
	if v.cache == nil {
		return nil, fmt.Errorf("no cache configured")
	}
	return v.cache.ListUser(v.userID)
}

// NewEntry opens an empty form. Only valid while listing.
func (v *View) NewEntry() error {
	if v.state != Listing {
		return fmt.Errorf("cannot open a new entry while %s", v.state)
	}
	v.form = newForm()
	v.editID = 0
	v.state = Creating
	return nil
}

// Edit opens the form pre-filled from the listed entry with the given id.
func (v *View) Edit(id int64) error {
	if v.state != Listing {
		return fmt.Errorf("cannot edit while %s", v.state)
	}
	for _, e := range v.entries {
		if e.ID == id {
			v.form = formFromEntry(e)
			v.editID = id
			v.state = Editing
			return nil
		}
	}
	return fmt.Errorf("entry %d not found", id)
}

// Cancel abandons the open form and returns to the list, refreshing it.
func (v *View) Cancel(ctx context.Context) error {
	if v.state == Listing {
		return nil
	}
	return v.toListing(ctx)
}

// Save submits the open form, creating or updating depending on how the
// form was opened, then returns to the refreshed list. A save that is
// already in flight rejects further submissions with ErrBusy.
func (v *View) Save(ctx context.Context) (journal.Entry, error) {
	if v.state != Creating && v.state != Editing {
		return journal.Entry{}, fmt.Errorf("no open form to save")
	}
	if v.busy {
		return journal.Entry{}, ErrBusy
	}
	v.busy = true
	defer func() { v.busy = false }()

	entry, err := v.form.ToEntry(v.userID)
	if err != nil {
		return journal.Entry{}, err
	}

	var saved journal.Entry
	if v.state == Editing {
		entry.ID = v.editID
		saved, err = v.gw.Update(ctx, v.editID, entry)
	} else {
		saved, err = v.gw.Create(ctx, entry)
	}
	if err != nil {
		// Stay on the form so the user can retry or cancel.
		return journal.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	if err := v.toListing(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// Delete removes an entry via the gateway and drops it from the local list
// without waiting for the next refresh.
func (v *View) Delete(ctx context.Context, id int64) error {
	if v.busy {
		return ErrBusy
	}
	v.busy = true
	defer func() { v.busy = false }()

	if err := v.gw.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	kept := v.entries[:0]
	for _, e := range v.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	v.entries = kept

	if v.cache != nil {
		if err := v.cache.DeleteEntry(v.userID, id); err != nil {
			logrus.WithError(err).Warn("view: could not update cache after delete")
		}
	}
	return nil
}

func (v *View) toListing(ctx context.Context) error {
	v.state = Listing
	v.form = Form{}
	v.editID = 0
	return v.Refresh(ctx)
}

func (v *View) mirror(entries []journal.Entry) {
	if v.cache == nil {
		return
	}
	if err := v.cache.ReplaceUser(v.userID, entries); err != nil {
		logrus.WithError(err).Warn("view: could not mirror list to cache")
	}
}
