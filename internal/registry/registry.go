// Package registry holds the client-side view of the open sessions.
package registry

import (
	"context"

	"github.com/hollowbeak/clockin/internal/model"
)

// Source lists the currently open sessions. Satisfied by api.Client.
type Source interface {
	Ongoing(ctx context.Context) ([]model.Session, error)
}

type entry struct {
	session model.Session
	notes   string
}

// Registry is the single source of truth for what is currently running.
// Insertion order is display order. Every successful refresh rebuilds the
// mapping wholesale from the service listing, so it never drifts from the
// server.
type Registry struct {
	src     Source
	order   []string
	entries map[string]*entry
}

// New returns an empty registry backed by src.
func New(src Source) *Registry {
	return &Registry{
		src:     src,
		entries: make(map[string]*entry),
	}
}

// Refresh fetches the authoritative open-session list and replaces the whole
// mapping. Scratch notes carry over for titles still open and are dropped for
// titles no longer listed. On error the previous contents are kept untouched.
func (r *Registry) Refresh(ctx context.Context) error {
	sessions, err := r.src.Ongoing(ctx)
	if err != nil {
		return err
	}
	r.Replace(sessions)
	return nil
}

// Replace rebuilds the mapping from sessions in the given order.
func (r *Registry) Replace(sessions []model.Session) {
	order := make([]string, 0, len(sessions))
	entries := make(map[string]*entry, len(sessions))
	for _, session := range sessions {
		if _, ok := entries[session.Title]; ok {
			// Open titles are unique upstream; keep the first if the
			// listing ever disagrees.
			continue
		}
		notes := ""
		if prev, ok := r.entries[session.Title]; ok {
			notes = prev.notes
		}
		order = append(order, session.Title)
		entries[session.Title] = &entry{session: session, notes: notes}
	}
	r.order = order
	r.entries = entries
}

// SetNotes updates the scratch notes for an open title. Titles that are not
// open are ignored.
func (r *Registry) SetNotes(title, text string) {
	if e, ok := r.entries[title]; ok {
		e.notes = text
	}
}

// Notes returns the scratch notes for title, or "" when it is not open.
func (r *Registry) Notes(title string) string {
	if e, ok := r.entries[title]; ok {
		return e.notes
	}
	return ""
}

// Get returns the open session for title.
func (r *Registry) Get(title string) (model.Session, bool) {
	if e, ok := r.entries[title]; ok {
		return e.session, true
	}
	return model.Session{}, false
}

// Titles returns the open titles in display order.
func (r *Registry) Titles() []string {
	titles := make([]string, len(r.order))
	copy(titles, r.order)
	return titles
}

// Sessions returns the open sessions in display order.
func (r *Registry) Sessions() []model.Session {
	sessions := make([]model.Session, 0, len(r.order))
	for _, title := range r.order {
		sessions = append(sessions, r.entries[title].session)
	}
	return sessions
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	return len(r.order)
}

// HasAnyOpen reports whether any session is currently open. Starting is gated
// on this: one open session at a time.
func (r *Registry) HasAnyOpen() bool {
	return len(r.order) > 0
}
