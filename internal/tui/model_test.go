package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hollowbeak/clockin/internal/apperrors"
	"github.com/hollowbeak/clockin/internal/controller"
	"github.com/hollowbeak/clockin/internal/model"
	"github.com/hollowbeak/clockin/internal/registry"
	"github.com/hollowbeak/clockin/internal/report"
)

type fakeGateway struct {
	ongoing []model.Session
	recent  []string
	latest  *model.Session
	report  string

	ongoingErr error
	recentErr  error
	startErr   error
	finishErr  error
	latestErr  error
	reportErr  error

	ongoingCalls int
	recentCalls  int
	startCalls   int
	finishCalls  int
	latestCalls  int
	reportCalls  int

	lastStartTitle  string
	lastFinishTitle string
	lastFinishNotes string
	lastQuery       model.ReportQuery
}

func (f *fakeGateway) Recent(ctx context.Context) ([]string, error) {
	f.recentCalls++
	return f.recent, f.recentErr
}

func (f *fakeGateway) Ongoing(ctx context.Context) ([]model.Session, error) {
	f.ongoingCalls++
	return f.ongoing, f.ongoingErr
}

func (f *fakeGateway) Start(ctx context.Context, title string) error {
	f.startCalls++
	f.lastStartTitle = title
	return f.startErr
}

func (f *fakeGateway) Finish(ctx context.Context, title, notes string) error {
	f.finishCalls++
	f.lastFinishTitle = title
	f.lastFinishNotes = notes
	return f.finishErr
}

func (f *fakeGateway) Latest(ctx context.Context, title string) (*model.Session, error) {
	f.latestCalls++
	return f.latest, f.latestErr
}

func (f *fakeGateway) Report(ctx context.Context, q model.ReportQuery) (string, error) {
	f.reportCalls++
	f.lastQuery = q
	return f.report, f.reportErr
}

func newTestModel(gw *fakeGateway) *Model {
	ctrl := controller.New(registry.New(gw))
	return NewModel(gw, ctrl, "http://localhost:8000", model.ViewDailyDetail, time.UTC)
}

// runCmd executes a command and feeds every resulting message back through
// Update, flattening batches, until the chain settles.
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			runCmd(t, m, sub)
		}
		return
	}
	_, next := m.Update(msg)
	runCmd(t, m, next)
}

func openTestSession(title string) model.Session {
	return model.Session{Title: title, Start: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestStartEmptyTitleIssuesNoRequest(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(gw)

	if cmd := m.requestStart("   "); cmd != nil {
		t.Fatalf("expected no command for a blank title")
	}
	if gw.startCalls != 0 {
		t.Fatalf("expected no network call, got %d", gw.startCalls)
	}
	if !errors.Is(m.ctrl.Err(), apperrors.ErrEmptyTitle) {
		t.Fatalf("expected validation error, got %v", m.ctrl.Err())
	}
}

func TestStartModalStaysOpenOnEmptyTitle(t *testing.T) {
	m := newTestModel(&fakeGateway{})
	m.startMode = true

	_, cmd := m.updateStart(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no command")
	}
	if !m.startMode {
		t.Fatalf("expected prompt to stay open for correction")
	}
}

func TestSecondStartRejectedLocally(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(gw)
	gw.ongoing = []model.Session{openTestSession("Write report")}

	runCmd(t, m, m.requestStart("Write report"))
	if gw.startCalls != 1 {
		t.Fatalf("expected one start call, got %d", gw.startCalls)
	}
	if !m.ctrl.Registry().HasAnyOpen() {
		t.Fatalf("expected an open session after refresh")
	}

	if cmd := m.requestStart("Write report"); cmd != nil {
		t.Fatalf("expected local rejection while a session is open")
	}
	if gw.startCalls != 1 {
		t.Fatalf("second start must not reach the network, got %d calls", gw.startCalls)
	}
	if m.ctrl.Err() != nil {
		t.Fatalf("local rejection must leave the error slot unset, got %v", m.ctrl.Err())
	}
	if _, ok := m.ctrl.Registry().Get("Write report"); !ok {
		t.Fatalf("registry must be unchanged")
	}
}

func TestFinishNotOpenIssuesNoRequest(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(gw)

	if cmd := m.requestFinish("ghost"); cmd != nil {
		t.Fatalf("expected no command for a title that is not open")
	}
	if gw.finishCalls != 0 {
		t.Fatalf("expected no network call, got %d", gw.finishCalls)
	}
	if !errors.Is(m.ctrl.Err(), apperrors.ErrNotOpen) {
		t.Fatalf("expected not-open error, got %v", m.ctrl.Err())
	}
}

func TestFinishSendsNotesAndRefreshes(t *testing.T) {
	gw := &fakeGateway{ongoing: []model.Session{openTestSession("Write report")}}
	m := newTestModel(gw)
	runCmd(t, m, m.loadOngoingCmd())

	m.ctrl.Registry().SetNotes("Write report", "sent the draft")
	gw.ongoing = nil
	gw.recent = []string{"Write report"}

	runCmd(t, m, m.requestFinish("Write report"))
	if gw.finishCalls != 1 {
		t.Fatalf("expected one finish call, got %d", gw.finishCalls)
	}
	if gw.lastFinishTitle != "Write report" || gw.lastFinishNotes != "sent the draft" {
		t.Fatalf("unexpected finish payload: %q / %q", gw.lastFinishTitle, gw.lastFinishNotes)
	}
	if m.ctrl.Registry().HasAnyOpen() {
		t.Fatalf("expected the registry to drop the finished title on refresh")
	}
	if len(m.ctrl.Recent()) != 1 {
		t.Fatalf("expected recent titles refreshed, got %v", m.ctrl.Recent())
	}
	if m.ctrl.Err() != nil {
		t.Fatalf("expected no error after a successful finish, got %v", m.ctrl.Err())
	}
}

func TestFinishServerFailureKeepsSessionOpen(t *testing.T) {
	gw := &fakeGateway{ongoing: []model.Session{openTestSession("Write report")}}
	m := newTestModel(gw)
	runCmd(t, m, m.loadOngoingCmd())
	m.ctrl.Registry().SetNotes("Write report", "almost done")

	gw.finishErr = &apperrors.StatusError{Code: 500}
	runCmd(t, m, m.requestFinish("Write report"))

	if m.ctrl.ErrText() != "500" {
		t.Fatalf("expected error text \"500\", got %q", m.ctrl.ErrText())
	}
	if _, ok := m.ctrl.Registry().Get("Write report"); !ok {
		t.Fatalf("registry must still contain the open session")
	}
	if notes := m.ctrl.Registry().Notes("Write report"); notes != "almost done" {
		t.Fatalf("notes must survive a failed finish, got %q", notes)
	}
	if gw.ongoingCalls != 1 {
		t.Fatalf("failed finish must not trigger a refresh, got %d ongoing calls", gw.ongoingCalls)
	}
}

func TestTransportFailureSurfacesMessage(t *testing.T) {
	gw := &fakeGateway{ongoingErr: &apperrors.TransportError{Err: errors.New("connection refused")}}
	m := newTestModel(gw)

	runCmd(t, m, m.loadOngoingCmd())
	if m.ctrl.ErrText() != "connection refused" {
		t.Fatalf("expected transport error text, got %q", m.ctrl.ErrText())
	}
}

func TestQuickReportUsesCurrentView(t *testing.T) {
	gw := &fakeGateway{report: "daily summary output"}
	m := newTestModel(gw)
	m.reportView = model.ViewDist

	picks := report.QuickPicks()
	runCmd(t, m, m.requestQuickReport(picks[1]))

	if gw.reportCalls != 1 {
		t.Fatalf("expected one report call, got %d", gw.reportCalls)
	}
	if gw.lastQuery.Offset != 1 || gw.lastQuery.Days != 1 || gw.lastQuery.View != model.ViewDist {
		t.Fatalf("unexpected query: %+v", gw.lastQuery)
	}
	if !m.hasReport || m.reportText != "daily summary output" {
		t.Fatalf("expected report text stored, got %q", m.reportText)
	}
	if !strings.Contains(m.reportSummary, "Yesterday") {
		t.Fatalf("expected summary label, got %q", m.reportSummary)
	}
}

func TestDetailContentKeepsOpenSessionOpen(t *testing.T) {
	m := newTestModel(&fakeGateway{})
	m.width = 80

	open := openTestSession("deep work")
	out := m.renderDetailContent(&open)
	if !strings.Contains(out, "still open") {
		t.Fatalf("expected open marker, got:\n%s", out)
	}
	if strings.Contains(out, "~") {
		t.Fatalf("open session must not render a closed span:\n%s", out)
	}

	end := open.Start.Add(90 * time.Minute)
	closed := open
	closed.End = &end
	out = m.renderDetailContent(&closed)
	if !strings.Contains(out, "~") || !strings.Contains(out, "1:30") {
		t.Fatalf("expected span and duration, got:\n%s", out)
	}

	m.detailTitle = "ghost"
	if out := m.renderDetailContent(nil); !strings.Contains(out, "No session recorded") {
		t.Fatalf("expected missing-session text, got:\n%s", out)
	}
}

func TestEscDismissesError(t *testing.T) {
	m := newTestModel(&fakeGateway{})
	m.ctrl.ApplyFetchError(&apperrors.StatusError{Code: 404})

	_, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.ctrl.Err() != nil {
		t.Fatalf("expected error dismissed, got %v", m.ctrl.Err())
	}
}

func TestStartKeyIgnoredWhileSessionOpen(t *testing.T) {
	gw := &fakeGateway{ongoing: []model.Session{openTestSession("deep work")}}
	m := newTestModel(gw)
	runCmd(t, m, m.loadOngoingCmd())

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd != nil || m.startMode {
		t.Fatalf("expected start prompt unavailable while a session is open")
	}
}
