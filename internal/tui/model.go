// Package tui provides the Bubble Tea dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hollowbeak/clockin/internal/controller"
	"github.com/hollowbeak/clockin/internal/model"
	"github.com/hollowbeak/clockin/internal/report"
	"github.com/hollowbeak/clockin/internal/timeutil"
)

const (
	tabOngoing = iota
	tabRecent
	tabReport
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea dashboard over the tracking service.
type Model struct {
	gateway   Gateway
	ctrl      *controller.Controller
	serverURL string
	loc       *time.Location

	tabs      []string
	activeTab int
	width     int
	height    int
	pending   int
	spinner   spinner.Model

	ongoingTable table.Model

	recentIndex int

	reportView    model.ViewType
	reportVP      viewport.Model
	reportSummary string
	reportText    string
	hasReport     bool

	detailMode  bool
	detailTitle string
	detailVP    viewport.Model

	startMode  bool
	startInput textinput.Model

	notesMode  bool
	notesTitle string
	notesArea  textarea.Model

	reportFormMode  bool
	reportInputs    []textinput.Model
	reportIndex     int
	reportFormError string
}

// NewModel constructs the dashboard model.
func NewModel(gw Gateway, ctrl *controller.Controller, serverURL string, view model.ViewType, loc *time.Location) *Model {
	m := &Model{
		gateway:    gw,
		ctrl:       ctrl,
		serverURL:  serverURL,
		loc:        loc,
		reportView: view,
		tabs:       []string{"Ongoing", "Recent", "Report"},
	}
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = spinnerStyle
	m.initStartInput()
	m.initNotesArea()
	m.initReportInputs()
	m.initOngoingTable()
	m.reportVP = viewport.New(0, 0)
	m.detailVP = viewport.New(0, 0)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadOngoingCmd(), m.loadRecentCmd(), m.spinner.Tick, elapsedTickCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case elapsedTickMsg:
		m.refreshOngoingTable()
		return m, elapsedTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ongoingLoadedMsg:
		m.pending--
		m.ctrl.ApplyOngoing(msg.sessions, msg.err)
		m.refreshOngoingTable()
		return m, nil

	case recentLoadedMsg:
		m.pending--
		m.ctrl.ApplyRecent(msg.titles, msg.err)
		if m.recentIndex >= len(m.ctrl.Recent()) {
			m.recentIndex = maxInt(0, len(m.ctrl.Recent())-1)
		}
		return m, nil

	case sessionStartedMsg:
		m.pending--
		if m.ctrl.CompleteStart(msg.err) {
			return m, m.refreshCmds()
		}
		return m, nil

	case sessionFinishedMsg:
		m.pending--
		if m.ctrl.CompleteFinish(msg.err) {
			return m, m.refreshCmds()
		}
		return m, nil

	case detailLoadedMsg:
		m.pending--
		if msg.err != nil {
			m.ctrl.ApplyFetchError(msg.err)
			return m, nil
		}
		m.showDetail(msg.title, msg.session)
		return m, nil

	case reportLoadedMsg:
		m.pending--
		if msg.err != nil {
			m.ctrl.ApplyFetchError(msg.err)
			return m, nil
		}
		m.reportSummary = msg.summary
		m.reportText = msg.text
		m.hasReport = true
		m.reportVP.SetContent(strings.TrimRight(msg.text, "\n"))
		m.reportVP.GotoTop()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.startMode {
		return m.updateStart(msg)
	}
	if m.notesMode {
		return m.updateNotes(msg)
	}
	if m.reportFormMode {
		return m.updateReportForm(msg)
	}
	if m.detailMode {
		return m.updateDetail(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "esc":
		m.ctrl.DismissError()
		return m, nil
	case "r":
		return m, m.refreshCmds()
	case "s":
		if m.ctrl.Registry().HasAnyOpen() {
			// One session at a time; the prompt stays unavailable
			// until the open one is finished.
			return m, nil
		}
		return m.openStart()
	}

	switch m.activeTab {
	case tabOngoing:
		return m.handleOngoingKey(msg)
	case tabRecent:
		return m.handleRecentKey(msg)
	case tabReport:
		return m.handleReportKey(msg)
	}
	return m, nil
}

func (m *Model) handleOngoingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "n":
		if title, ok := m.selectedOngoingTitle(); ok {
			return m.openNotes(title)
		}
		return m, nil
	case "f":
		if title, ok := m.selectedOngoingTitle(); ok {
			return m, m.requestFinish(title)
		}
		return m, nil
	case "d":
		if title, ok := m.selectedOngoingTitle(); ok {
			return m, m.detailCmd(title)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ongoingTable, cmd = m.ongoingTable.Update(msg)
	return m, cmd
}

func (m *Model) handleRecentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recent := m.ctrl.Recent()
	switch msg.String() {
	case "up", "k":
		if m.recentIndex > 0 {
			m.recentIndex--
		}
		return m, nil
	case "down", "j":
		if m.recentIndex < len(recent)-1 {
			m.recentIndex++
		}
		return m, nil
	case "enter":
		if m.recentIndex < len(recent) {
			return m, m.requestStart(recent[m.recentIndex])
		}
		return m, nil
	case "d":
		if m.recentIndex < len(recent) {
			return m, m.detailCmd(recent[m.recentIndex])
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3", "4":
		picks := report.QuickPicks()
		idx := int(msg.String()[0] - '1')
		if idx < len(picks) {
			return m, m.requestQuickReport(picks[idx])
		}
		return m, nil
	case "/", "e":
		return m.openReportForm()
	case "v":
		m.cycleReportView()
		return m, nil
	}
	var cmd tea.Cmd
	m.reportVP, cmd = m.reportVP.Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.detailMode = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detailVP, cmd = m.detailVP.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.startMode {
		return fitLines(m.renderStartModal(), m.width, m.height)
	}
	if m.notesMode {
		return fitLines(m.renderNotesEditor(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initOngoingTable() {
	t := table.New(
		table.WithColumns(m.ongoingColumns()),
		table.WithHeight(1),
	)
	t.SetStyles(sessionTableStyles())
	t.Focus()
	m.ongoingTable = t
}

func (m *Model) ongoingColumns() []table.Column {
	width := m.width
	if width <= 0 {
		width = 80
	}
	startedW := len(timeutil.DisplayLayout)
	elapsedW := 8
	rest := width - startedW - elapsedW - 6
	titleW := maxInt(12, rest/2)
	notesW := maxInt(12, rest-titleW)
	return []table.Column{
		{Title: "Title", Width: titleW},
		{Title: "Started", Width: startedW},
		{Title: "Elapsed", Width: elapsedW},
		{Title: "Notes", Width: notesW},
	}
}

func (m *Model) refreshOngoingTable() {
	cols := m.ongoingColumns()
	now := time.Now()
	reg := m.ctrl.Registry()
	sessions := reg.Sessions()
	rows := make([]table.Row, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, table.Row{
			session.Title,
			timeutil.FormatIn(session.Start, m.loc),
			timeutil.FormatDuration(now.Sub(session.Start)),
			truncateLine(firstLine(reg.Notes(session.Title)), cols[3].Width),
		})
	}
	m.ongoingTable.SetColumns(cols)
	m.ongoingTable.SetRows(rows)
	if m.ongoingTable.Cursor() >= len(rows) {
		m.ongoingTable.SetCursor(maxInt(0, len(rows)-1))
	}
}

func (m *Model) selectedOngoingTitle() (string, bool) {
	titles := m.ctrl.Registry().Titles()
	idx := m.ongoingTable.Cursor()
	if idx < 0 || idx >= len(titles) {
		return "", false
	}
	return titles[idx], true
}

func (m *Model) showDetail(title string, session *model.Session) {
	m.detailMode = true
	m.detailTitle = title
	m.detailVP.SetContent(m.renderDetailContent(session))
	m.detailVP.GotoTop()
}

func (m *Model) renderDetailContent(session *model.Session) string {
	if session == nil {
		return fmt.Sprintf("No session recorded for %q.", m.detailTitle)
	}
	d := timeutil.NewDetail(*session, m.loc)
	width := maxInt(20, m.width-4)
	lines := []string{cardValueStyle.Render(d.Title)}
	if d.Open() {
		lines = append(lines,
			fmt.Sprintf("Started at: %s (still open)", d.StartDisplay),
			fmt.Sprintf("Elapsed: %s", timeutil.FormatDuration(time.Since(d.Start))))
	} else {
		lines = append(lines,
			fmt.Sprintf("%s ~ %s", d.StartDisplay, d.EndDisplay),
			fmt.Sprintf("Duration: %s", timeutil.FormatDuration(d.End.Sub(d.Start))))
	}
	if d.Notes != "" {
		lines = append(lines, "", headerStyle.Render("Notes"), wrapText(d.Notes, width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) cycleReportView() {
	order := []model.ViewType{model.ViewDailyDetail, model.ViewDaily, model.ViewDetail, model.ViewDist}
	for i, v := range order {
		if v == m.reportView {
			m.reportView = order[(i+1)%len(order)]
			return
		}
	}
	m.reportView = model.ViewDailyDetail
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabOngoing {
		m.ongoingTable.Focus()
	} else {
		m.ongoingTable.Blur()
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.reportFormMode && m.ctrl.ErrText() != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.reportVP.Width = m.width
	m.reportVP.Height = maxInt(1, bodyHeight-1)
	m.detailVP.Width = m.width
	m.detailVP.Height = bodyHeight
	m.ongoingTable.SetWidth(m.width)
	m.ongoingTable.SetHeight(maxInt(1, bodyHeight-1))
	m.refreshOngoingTable()
	for i := range m.reportInputs {
		promptWidth := lipgloss.Width(m.reportInputs[i].Prompt)
		m.reportInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.startInput.Prompt)
	m.startInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
	m.sizeNotesArea()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	status := padLines(m.renderStatusLine(), m.width)
	return tabs + "\n" + status
}

func (m *Model) renderStatusLine() string {
	status := fmt.Sprintf("Server: %s  open=%d  view=%s", m.serverURL, m.ctrl.Registry().Len(), m.reportView)
	status = truncateLine(status, maxInt(1, m.width-4))
	line := headerStyle.Render(status)
	if m.pending > 0 {
		line += "  " + m.spinner.View()
	}
	return line
}

func (m *Model) renderHelp() string {
	var help string
	switch m.activeTab {
	case tabOngoing:
		help = "Nav: left/right  Select: up/down  Notes: enter  Finish: f  Detail: d  Start: s  Refresh: r  Quit: q"
	case tabRecent:
		help = "Nav: left/right  Select: up/down  Restart: enter  Detail: d  Start: s  Refresh: r  Quit: q"
	default:
		help = "Nav: left/right  Quick: 1-4  Range: /  View: v  Scroll: up/down  Refresh: r  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.reportFormMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: run  esc: cancel")
	}
	if errText := m.ctrl.ErrText(); errText != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(errText+"  (esc to dismiss)")
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.reportFormMode {
		return fitLines(m.renderReportForm(), m.width, height)
	}
	if m.detailMode {
		return fitLines(m.detailVP.View(), m.width, height)
	}
	switch m.activeTab {
	case tabOngoing:
		if m.ctrl.Registry().Len() == 0 {
			return fitLines("No ongoing sessions. Press s to start one.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.ongoingTable.View()), m.width, height)
	case tabRecent:
		return fitLines(m.renderRecentList(), m.width, height)
	case tabReport:
		return fitLines(m.renderReportBody(), m.width, height)
	}
	return fitLines("", m.width, height)
}

func (m *Model) renderRecentList() string {
	recent := m.ctrl.Recent()
	if len(recent) == 0 {
		return "No recent sessions."
	}
	lines := make([]string, 0, len(recent)+1)
	lines = append(lines, headerStyle.Render("Recently finished (enter restarts the selection):"))
	for i, title := range recent {
		text := truncateLine(fmt.Sprintf("%d: %s", i+1, title), maxInt(1, m.width-2))
		if i == m.recentIndex {
			lines = append(lines, cardValueStyle.Render("> "+text))
		} else {
			lines = append(lines, tableMutedStyle.Render("  "+text))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderReportBody() string {
	if !m.hasReport {
		return "Press 1-4 for a quick report, / for a custom range."
	}
	title := headerStyle.Render(truncateLine("Report: "+m.reportSummary, m.width))
	return title + "\n" + m.reportVP.View()
}

func sessionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
