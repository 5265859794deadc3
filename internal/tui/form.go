package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hollowbeak/clockin/internal/apperrors"
	"github.com/hollowbeak/clockin/internal/report"
)

const (
	reportFieldOffset = iota
	reportFieldDays
	reportFieldFrom
	reportFieldTo
)

func newPromptInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) initStartInput() {
	m.startInput = newPromptInput("Title: ")
	m.startInput.Placeholder = "what are you working on?"
}

func (m *Model) initNotesArea() {
	area := textarea.New()
	area.Placeholder = "notes for this session"
	area.CharLimit = 0
	m.notesArea = area
}

func (m *Model) initReportInputs() {
	m.reportInputs = []textinput.Model{
		newPromptInput("Offset (days back): "),
		newPromptInput("Days (blank = open-ended): "),
		newPromptInput("From (YYYY-MM-DD): "),
		newPromptInput("To (YYYY-MM-DD): "),
	}
}

func (m *Model) openStart() (tea.Model, tea.Cmd) {
	m.startMode = true
	m.startInput.SetValue("")
	return m, m.startInput.Focus()
}

func (m *Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.startMode = false
		m.startInput.Blur()
		return m, nil
	case tea.KeyEnter:
		cmd := m.requestStart(m.startInput.Value())
		if cmd == nil {
			if errors.Is(m.ctrl.Err(), apperrors.ErrEmptyTitle) {
				// Keep the prompt open so the title can be fixed.
				return m, nil
			}
			m.startMode = false
			m.startInput.Blur()
			return m, nil
		}
		m.startMode = false
		m.startInput.Blur()
		return m, cmd
	}
	var cmd tea.Cmd
	m.startInput, cmd = m.startInput.Update(msg)
	return m, cmd
}

func (m *Model) renderStartModal() string {
	body := []string{
		cardValueStyle.Render("Start Session"),
		m.startInput.View(),
		headerStyle.Render("Enter to start / Esc to cancel"),
	}
	if errText := m.ctrl.ErrText(); errText != "" {
		body = append(body, errorStyle.Render(errText))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) openNotes(title string) (tea.Model, tea.Cmd) {
	m.notesMode = true
	m.notesTitle = title
	m.notesArea.SetValue(m.ctrl.Registry().Notes(title))
	m.sizeNotesArea()
	return m, m.notesArea.Focus()
}

func (m *Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.notesMode = false
		m.notesArea.Blur()
		m.refreshOngoingTable()
		return m, nil
	}
	var cmd tea.Cmd
	m.notesArea, cmd = m.notesArea.Update(msg)
	// The scratch buffer tracks the editor keystroke by keystroke so a
	// finish from any path sends the latest text.
	m.ctrl.Registry().SetNotes(m.notesTitle, m.notesArea.Value())
	return m, cmd
}

func (m *Model) renderNotesEditor() string {
	body := []string{
		cardValueStyle.Render("Notes: " + m.notesTitle),
		m.notesArea.View(),
		headerStyle.Render("Esc when done. Notes are sent when the session is finished."),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) sizeNotesArea() {
	m.notesArea.SetWidth(modalInnerWidth(m.width))
	m.notesArea.SetHeight(minInt(8, maxInt(3, m.height-8)))
}

func (m *Model) openReportForm() (tea.Model, tea.Cmd) {
	m.reportFormMode = true
	m.reportFormError = ""
	return m, m.setReportIndex(0)
}

func (m *Model) setReportIndex(idx int) tea.Cmd {
	count := len(m.reportInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.reportIndex = idx
	var cmd tea.Cmd
	for i := range m.reportInputs {
		if i == m.reportIndex {
			cmd = m.reportInputs[i].Focus()
		} else {
			m.reportInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) updateReportForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.reportFormMode = false
		m.reportFormError = ""
		return m, nil
	case tea.KeyEnter:
		cmd, err := m.applyReportForm()
		if err != nil {
			m.reportFormError = err.Error()
			return m, nil
		}
		m.reportFormMode = false
		m.reportFormError = ""
		return m, cmd
	case tea.KeyTab:
		return m, m.setReportIndex(m.reportIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setReportIndex(m.reportIndex - 1)
	}
	var cmd tea.Cmd
	m.reportInputs[m.reportIndex], cmd = m.reportInputs[m.reportIndex].Update(msg)
	return m, cmd
}

// applyReportForm turns the form into a canonical query. A filled date pair
// wins over the offset fields; blank or unparsable offset fields fall back to
// the lenient defaults.
func (m *Model) applyReportForm() (tea.Cmd, error) {
	from := strings.TrimSpace(m.reportInputs[reportFieldFrom].Value())
	to := strings.TrimSpace(m.reportInputs[reportFieldTo].Value())
	if from != "" || to != "" {
		if from == "" || to == "" {
			return nil, fmt.Errorf("both dates are required for a date range")
		}
		q, err := report.FromDates(from, to, time.Now(), m.loc, m.reportView)
		if err != nil {
			return nil, err
		}
		return m.reportCmd(q, fmt.Sprintf("%s ~ %s (%s)", from, to, q.View)), nil
	}

	q := report.Normalize(
		m.reportInputs[reportFieldOffset].Value(),
		m.reportInputs[reportFieldDays].Value(),
		m.reportView,
	)
	return m.reportCmd(q, report.Summary(q)), nil
}

func (m *Model) renderReportForm() string {
	lines := []string{"Report range (enter to run, esc to cancel)"}
	for _, input := range m.reportInputs {
		lines = append(lines, input.View())
	}
	lines = append(lines, headerStyle.Render(fmt.Sprintf("View type: %s (cycle with v before opening this form)", m.reportView)))
	if m.reportFormError != "" {
		lines = append(lines, errorStyle.Render(m.reportFormError))
	}
	return strings.Join(lines, "\n")
}
