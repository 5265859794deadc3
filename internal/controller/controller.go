// Package controller coordinates user intents against the session registry
// and the single current-error slot.
package controller

import (
	"strings"

	"github.com/hollowbeak/clockin/internal/apperrors"
	"github.com/hollowbeak/clockin/internal/model"
	"github.com/hollowbeak/clockin/internal/registry"
)

// Controller owns the client-side state a front end renders: the ongoing
// registry, the recent titles, and the current error. Mutations happen only
// through its methods so every flow can be exercised without a UI. Local
// validation runs before any request is allowed; completion methods apply
// the request outcome afterwards.
type Controller struct {
	reg    *registry.Registry
	recent []string
	err    error
}

// New returns a controller over reg.
func New(reg *registry.Registry) *Controller {
	return &Controller{reg: reg}
}

// Registry exposes the ongoing registry for read access.
func (c *Controller) Registry() *registry.Registry {
	return c.reg
}

// Recent returns the most-recent-first finished titles from the last refresh.
func (c *Controller) Recent() []string {
	return c.recent
}

// Err returns the current error, or nil.
func (c *Controller) Err() error {
	return c.err
}

// ErrText renders the current error for display: bare status code digits for
// HTTP failures, the underlying message otherwise, "" when clear.
func (c *Controller) ErrText() string {
	return apperrors.Describe(c.err)
}

// DismissError clears the current error. Errors stay visible until the user
// dismisses them or a later action overwrites the slot.
func (c *Controller) DismissError() {
	c.err = nil
}

// BeginStart validates a start intent. It returns the trimmed title and
// whether the request may be issued. An empty title records the validation
// error. A start while another session is open is rejected without touching
// the error slot: the affordance is disabled in the UI, so the rejection is
// silent.
func (c *Controller) BeginStart(title string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		c.err = apperrors.ErrEmptyTitle
		return "", false
	}
	if c.reg.HasAnyOpen() {
		return "", false
	}
	return title, true
}

// BeginFinish validates a finish intent. It returns the scratch notes for the
// title and whether the request may be issued. A title that is not open
// records the not-open error; no request is allowed.
func (c *Controller) BeginFinish(title string) (string, bool) {
	if _, ok := c.reg.Get(title); !ok {
		c.err = apperrors.ErrNotOpen
		return "", false
	}
	return c.reg.Notes(title), true
}

// CompleteStart applies a start outcome. Success clears the error slot and
// asks the caller to refresh; failure records the error and leaves all local
// state untouched so the action can be retried.
func (c *Controller) CompleteStart(err error) bool {
	if err != nil {
		c.err = err
		return false
	}
	c.err = nil
	return true
}

// CompleteFinish applies a finish outcome. Success clears the error slot and
// asks the caller to refresh; failure records the error and leaves the
// session open with its notes intact.
func (c *Controller) CompleteFinish(err error) bool {
	if err != nil {
		c.err = err
		return false
	}
	c.err = nil
	return true
}

// ApplyOngoing applies the outcome of an ongoing-list fetch. On success the
// registry is rebuilt wholesale; on failure it keeps its previous contents
// and the error is recorded.
func (c *Controller) ApplyOngoing(sessions []model.Session, err error) {
	if err != nil {
		c.err = err
		return
	}
	c.reg.Replace(sessions)
}

// ApplyRecent applies the outcome of a recent-titles fetch.
func (c *Controller) ApplyRecent(titles []string, err error) {
	if err != nil {
		c.err = err
		return
	}
	c.recent = titles
}

// ApplyFetchError records a read failure (detail or report) in the error
// slot.
func (c *Controller) ApplyFetchError(err error) {
	if err != nil {
		c.err = err
	}
}
