package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/parser"
	"github.com/haarrywhiite/Farkle/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#8B4513")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#DAA520")).
			Padding(0, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))

	dieStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			MarginRight(1)

	dieStatusColor = map[dice.Status]lipgloss.Color{
		dice.Available: lipgloss.Color("#FAFAFA"),
		dice.Selected:  lipgloss.Color("#FFD700"),
		dice.Locked:    lipgloss.Color("#666666"),
	}

	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

// stepMsg asks the model to play back the next event or advance the table.
type stepMsg struct{}

type tableModel struct {
	app         *session.Session
	pace        time.Duration
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	queue       []engine.Event
	ticking     bool
	width       int
	height      int
	showList    bool
}

func newTableModel(app *session.Session, pace time.Duration) tableModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., roll, keep 1 3, bank)..."
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 60

	vp := viewport.New(0, 0)
	welcome := "Welcome to the tavern! Type 'help' for the commands, 'quit' to leave."
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	m := tableModel{
		app:         app,
		pace:        pace,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
		logContent:  welcome + "\n",
	}
	m.queue = append(m.queue, app.Opening()...)
	return m
}

func (m *tableModel) Init() tea.Cmd {
	m.ticking = true
	return tea.Batch(textinput.Blink, m.tick())
}

func (m *tableModel) tick() tea.Cmd {
	return tea.Tick(m.pace, func(time.Time) tea.Msg { return stepMsg{} })
}

// advance plays back one queued event, or asks the session for more when
// nobody at the table needs to type.
func (m *tableModel) advance() tea.Cmd {
	if len(m.queue) == 0 && !m.app.NeedsHuman() && !m.app.Over() && !m.app.Quit() {
		events, progressed, err := m.app.Step()
		if err != nil {
			m.appendLog(fmt.Sprintf("Error: %v", err))
		}
		if progressed {
			m.queue = append(m.queue, events...)
		}
	}
	if len(m.queue) == 0 {
		m.ticking = false
		return nil
	}
	evt := m.queue[0]
	m.queue = m.queue[1:]
	if msg := evt.Message(); msg != "" {
		m.appendLog(msg)
	}
	return m.tick()
}

func (m *tableModel) appendLog(line string) {
	m.logContent += line + "\n"
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

func (m *tableModel) updateSuggestions() {
	val := strings.ToLower(m.textInput.Value())
	var items []list.Item

	defer func() {
		m.suggestions.SetItems(items)
		m.showList = len(items) > 0
		if m.showList {
			h := len(items)
			if h < 4 {
				h = 4
			}
			m.suggestions.SetHeight(h)
			m.suggestions.ResetSelected()
		}
	}()

	if val == "" {
		return
	}

	verbs := make([]string, 0, len(parser.Usage))
	for verb := range parser.Usage {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	for _, c := range verbs {
		if strings.HasPrefix(c, val) && len(val) < len(c) {
			items = append(items, suggestion(c))
		}
	}
}

func (m *tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd   tea.Cmd
		vpCmd   tea.Cmd
		lsCmd   tea.Cmd
		stepCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case stepMsg:
		stepCmd = m.advance()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i) + " ")
					m.textInput.SetCursor(len(i) + 1)
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "" {
				break
			}
			if len(m.history) == 0 || m.history[len(m.history)-1] != val {
				m.history = append(m.history, val)
			}
			m.historyIdx = -1
			m.textInput.SetValue("")
			m.updateSuggestions()

			if len(m.queue) > 0 {
				m.appendLog("The dice are still rolling...")
				break
			}

			m.appendLog(fmt.Sprintf("\n> %s", val))
			events, err := m.app.Execute(val)
			if err != nil {
				m.appendLog(err.Error())
			}
			for _, evt := range events {
				if text := evt.Message(); text != "" {
					m.appendLog(text)
				}
			}
			if m.app.Quit() {
				return m, tea.Quit
			}
			if !m.ticking {
				m.ticking = true
				stepCmd = m.tick()
			}

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2
	}
	infoH := lipgloss.Height(infoStyle.Render("Dummy"))
	overhead := titleH + stateH + 1 + listAreaHeight + infoH + 6

	m.viewport.Height = m.height - overhead
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}

	return m, tea.Batch(tiCmd, vpCmd, lsCmd, stepCmd)
}

func (m *tableModel) renderState() string {
	snap := m.app.Snapshot()
	var b strings.Builder

	for i, p := range snap.Players {
		line := fmt.Sprintf("%-18s %6d", p.Name, p.TotalScore)
		if p.Automated {
			line += "  (bot)"
		}
		if i == snap.Current && snap.Phase != engine.PhaseGameOver {
			b.WriteString(currentStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	fmt.Fprintf(&b, "\nTarget %d   Turn %d   Selected %d   Live %d   [%s]\n\n",
		snap.Target, snap.TurnTotal, snap.Pending.Points, snap.LiveScore, snap.Phase)

	b.WriteString(renderDice(snap))

	if br := snap.Bracket; br != nil {
		b.WriteString("\n\n")
		for i, mt := range br.Matches {
			line := fmt.Sprintf("%s: %s vs %s", engine.MatchName(i), orTBD(mt.Player1), orTBD(mt.Player2))
			if mt.Winner != "" {
				line += "  -> " + mt.Winner
			}
			b.WriteString(line + "\n")
		}
		if br.Champion != "" {
			b.WriteString("Champion: " + br.Champion + "\n")
		}
	}

	return stateBoxStyle.Width(m.width - 4).Render(strings.TrimRight(b.String(), "\n"))
}

func renderDice(snap engine.Snapshot) string {
	cells := make([]string, len(snap.Dice))
	for i, d := range snap.Dice {
		face := "-"
		if d.Face > 0 {
			face = fmt.Sprint(d.Face)
		}
		style := dieStyle.BorderForeground(dieStatusColor[d.Status]).Foreground(dieStatusColor[d.Status])
		cells[i] = lipgloss.JoinVertical(lipgloss.Center, style.Render(face), infoStyle.Render(fmt.Sprint(i+1)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func orTBD(name string) string {
	if name == "" {
		return "TBD"
	}
	return name
}

func (m *tableModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	snap := m.app.Snapshot()
	title := titleStyle.Render(fmt.Sprintf(" Farkle | %s | first to %d ", m.app.Config().Mode, snap.Target))
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderState(),
		logBox,
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

// RunTUI plays a session in the full-screen table view.
func RunTUI(app *session.Session, pace time.Duration) error {
	m := newTableModel(app, pace)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
