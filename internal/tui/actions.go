package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hollowbeak/clockin/internal/model"
	"github.com/hollowbeak/clockin/internal/report"
)

// Gateway is the network surface the dashboard consumes. Satisfied by
// api.Client. Every call is a single attempt; outcomes come back as typed
// messages and are applied on the update loop.
type Gateway interface {
	Recent(ctx context.Context) ([]string, error)
	Ongoing(ctx context.Context) ([]model.Session, error)
	Start(ctx context.Context, title string) error
	Finish(ctx context.Context, title, notes string) error
	Latest(ctx context.Context, title string) (*model.Session, error)
	Report(ctx context.Context, q model.ReportQuery) (string, error)
}

type ongoingLoadedMsg struct {
	sessions []model.Session
	err      error
}

type recentLoadedMsg struct {
	titles []string
	err    error
}

type sessionStartedMsg struct {
	title string
	err   error
}

type sessionFinishedMsg struct {
	title string
	err   error
}

type detailLoadedMsg struct {
	title   string
	session *model.Session
	err     error
}

type reportLoadedMsg struct {
	summary string
	text    string
	err     error
}

type elapsedTickMsg time.Time

func (m *Model) loadOngoingCmd() tea.Cmd {
	m.pending++
	return func() tea.Msg {
		sessions, err := m.gateway.Ongoing(context.Background())
		return ongoingLoadedMsg{sessions: sessions, err: err}
	}
}

func (m *Model) loadRecentCmd() tea.Cmd {
	m.pending++
	return func() tea.Msg {
		titles, err := m.gateway.Recent(context.Background())
		return recentLoadedMsg{titles: titles, err: err}
	}
}

func (m *Model) startCmd(title string) tea.Cmd {
	m.pending++
	return func() tea.Msg {
		err := m.gateway.Start(context.Background(), title)
		return sessionStartedMsg{title: title, err: err}
	}
}

func (m *Model) finishCmd(title, notes string) tea.Cmd {
	m.pending++
	return func() tea.Msg {
		err := m.gateway.Finish(context.Background(), title, notes)
		return sessionFinishedMsg{title: title, err: err}
	}
}

func (m *Model) detailCmd(title string) tea.Cmd {
	m.pending++
	return func() tea.Msg {
		session, err := m.gateway.Latest(context.Background(), title)
		return detailLoadedMsg{title: title, session: session, err: err}
	}
}

func (m *Model) reportCmd(q model.ReportQuery, summary string) tea.Cmd {
	m.pending++
	return func() tea.Msg {
		text, err := m.gateway.Report(context.Background(), q)
		return reportLoadedMsg{summary: summary, text: text, err: err}
	}
}

func elapsedTickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return elapsedTickMsg(t)
	})
}

// requestStart runs the local half of the start flow and returns the network
// command when the intent is valid. An empty title records the validation
// error; a start while a session is open is dropped silently.
func (m *Model) requestStart(title string) tea.Cmd {
	cleaned, ok := m.ctrl.BeginStart(title)
	if !ok {
		return nil
	}
	return m.startCmd(cleaned)
}

// requestFinish runs the local half of the finish flow. Titles that are not
// open record the not-open error and issue nothing.
func (m *Model) requestFinish(title string) tea.Cmd {
	notes, ok := m.ctrl.BeginFinish(title)
	if !ok {
		return nil
	}
	return m.finishCmd(title, notes)
}

// requestQuickReport runs one of the preset queries.
func (m *Model) requestQuickReport(pick report.QuickPick) tea.Cmd {
	q := model.ReportQuery{Offset: pick.Offset, Days: pick.Days, View: m.reportView}
	return m.reportCmd(q, fmt.Sprintf("%s (%s)", pick.Label, q.View))
}

// refreshCmds reloads the registry and the recent titles, as required after
// every successful mutation.
func (m *Model) refreshCmds() tea.Cmd {
	return tea.Batch(m.loadOngoingCmd(), m.loadRecentCmd())
}
