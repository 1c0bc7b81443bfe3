// Package tui provides the Bubble Tea message composer demo.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ultrasecure/typeahead/internal/engine"
	"github.com/ultrasecure/typeahead/internal/model"
	"github.com/ultrasecure/typeahead/internal/stats"
	"github.com/ultrasecure/typeahead/internal/store"
)

var (
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	acceptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea message composer demo. Every keystroke asks
// the engine for next-word suggestions; Enter sends the message into the
// engine (and the archive), Tab accepts the first suggestion.
type Model struct {
	eng    *engine.Engine
	st     *store.Store // nil disables archiving
	userID string
	limit  int

	input textinput.Model
	log   viewport.Model

	width  int
	height int

	suggestions []string
	sentLines   []string

	typingStart  time.Time // first keystroke of the current message
	sessionStart time.Time

	messages int
	words    int
	chars    int
}

// NewModel constructs a composer model for one user.
func NewModel(eng *engine.Engine, st *store.Store, userID string, limit int) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type a message"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()

	m := &Model{
		eng:          eng,
		st:           st,
		userID:       userID,
		limit:        limit,
		input:        input,
		log:          viewport.New(0, 0),
		sessionStart: time.Now(),
	}
	m.refreshLog()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.finish()
			return m, tea.Quit
		case tea.KeyEnter:
			m.sendMessage()
			return m, nil
		case tea.KeyTab:
			m.acceptSuggestion()
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			if m.typingStart.IsZero() && after != "" {
				m.typingStart = time.Now()
			}
			m.refreshSuggestions()
		}
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	sections := []string{
		headerStyle.Render(fmt.Sprintf("typeahead · %s", m.userID)),
		m.log.View(),
		m.renderSuggestions(),
		m.input.View(),
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) updateLayout() {
	promptWidth := lipgloss.Width(m.input.Prompt)
	inputWidth := m.width - promptWidth - 1
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.Width = inputWidth

	logHeight := m.height - 4
	if logHeight < 1 {
		logHeight = 1
	}
	m.log.Width = m.width
	m.log.Height = logHeight
	m.refreshLog()
}

func (m *Model) refreshSuggestions() {
	m.suggestions = m.eng.PredictNext(m.userID, m.input.Value(), m.limit)
}

func (m *Model) acceptSuggestion() {
	if len(m.suggestions) == 0 {
		return
	}
	val := strings.TrimRight(m.input.Value(), " ")
	if val != "" {
		val += " "
	}
	m.input.SetValue(val + m.suggestions[0] + " ")
	m.input.CursorEnd()
	if m.typingStart.IsZero() {
		m.typingStart = time.Now()
	}
	m.refreshSuggestions()
}

func (m *Model) sendMessage() {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return
	}
	elapsedSec := 0.0
	if !m.typingStart.IsZero() {
		elapsedSec = time.Since(m.typingStart).Seconds()
	}
	m.eng.RecordTyping(m.userID, text, elapsedSec)

	if m.st != nil {
		ev := model.TypingEvent{
			UserID:     m.userID,
			Text:       text,
			ElapsedSec: elapsedSec,
			RecordedAt: time.Now().UTC(),
		}
		if _, err := m.st.InsertEvent(context.Background(), ev); err != nil {
			slog.Error("failed to archive message", "error", err)
		}
	}

	m.messages++
	m.words += len(engine.Tokenize(text))
	m.chars += utf8.RuneCountInString(text)

	m.sentLines = append(m.sentLines, fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), text))
	m.refreshLog()

	m.input.SetValue("")
	m.typingStart = time.Time{}
	m.suggestions = nil
}

func (m *Model) refreshLog() {
	if len(m.sentLines) == 0 {
		m.log.SetContent(suggestionStyle.Render("No messages yet."))
		return
	}
	content := strings.Join(m.sentLines, "\n")
	if m.log.Width > 0 {
		content = wrapText(content, m.log.Width)
	}
	m.log.SetContent(content)
	m.log.GotoBottom()
}

func (m *Model) renderSuggestions() string {
	if len(m.suggestions) == 0 {
		return suggestionStyle.Render("…")
	}
	parts := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		if i == 0 {
			parts = append(parts, acceptStyle.Render(s))
		} else {
			parts = append(parts, suggestionStyle.Render(s))
		}
	}
	return suggestionStyle.Render("tab ") + strings.Join(parts, suggestionStyle.Render(" · "))
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Msgs %d", m.messages)}
	if speed := m.eng.AverageTypingSpeed(m.userID); speed > 0 {
		segments = append(segments, fmt.Sprintf("%.1f chars/s · %.0f WPM", speed, stats.WPM(speed)))
	}
	met := m.eng.Metrics()
	if total := met.CacheHits + met.CacheMisses; total > 0 {
		segments = append(segments, fmt.Sprintf("cache %d%%", int(float64(met.CacheHits)/float64(total)*100)))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// finish archives the session before the program quits.
func (m *Model) finish() {
	if m.st == nil || m.messages == 0 {
		return
	}
	endedAt := time.Now()
	sess := model.SessionStats{
		StartedAt:   m.sessionStart,
		EndedAt:     endedAt,
		UserID:      m.userID,
		Messages:    m.messages,
		Words:       m.words,
		Chars:       m.chars,
		CharsPerSec: m.eng.AverageTypingSpeed(m.userID),
		DurationMs:  endedAt.Sub(m.sessionStart).Milliseconds(),
	}
	if _, err := m.st.InsertSession(context.Background(), sess); err != nil {
		slog.Error("failed to save session", "error", err)
	}
}
