package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ollamachat/ollamachat/internal/chat"
	"github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/models"
	"github.com/ollamachat/ollamachat/internal/render"
)

// Labels shown while an operation is in flight
const (
	loadingModelsText = "Loading models..."
	sendingText       = "Sending..."
	inputPlaceholder  = "Type a message..."
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// modelsLoadedMsg reports the end of the initial model fetch
	modelsLoadedMsg struct {
		err error
	}
	// sendDoneMsg reports the end of an exchange
	sendDoneMsg struct {
		err error
	}
	// stateChangedMsg is posted by the session observer
	stateChangedMsg struct{}
)

// Config holds the presentation settings of the chat UI
type Config struct {
	Render    render.Options
	Theme     string
	ServerURL string
}

// Model represents the TUI state
type Model struct {
	ctx     context.Context
	session *chat.Session
	state   chat.State
	cfg     Config

	// copy writes to the system clipboard
	copy func(string) error

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int
	notice         string
	noticeIsError  bool

	selector modelSelector

	width  int
	height int
}

// NewChatModel creates the chat TUI for session
func NewChatModel(ctx context.Context, session *chat.Session, cfg Config) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Theme != "" {
		SetTheme(cfg.Theme)
	}
	if cfg.Render.Style == "" {
		cfg.Render = render.DefaultOptions()
	}

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Prompt = "› "
	ti.CharLimit = 4000
	ti.PromptStyle = inputLabelStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:     ctx,
		session: session,
		state:   session.Snapshot(),
		cfg:     cfg,
		copy:    clipboard.WriteAll,
		input:   ti,
		spinner: s,
	}
}

// Init starts the model fetch and the animations
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		animationTick(),
		m.loadModels(),
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func (m Model) loadModels() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		err := session.Registry().Load(ctx)
		if stderrors.Is(err, errors.ErrAlreadyLoaded) {
			err = nil
		}
		return modelsLoadedMsg{err: err}
	}
}

func runExchange(ctx context.Context, ex *chat.Exchange) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: ex.Run(ctx)}
	}
}

// loadingModels reports whether the model list is not available yet
func (m Model) loadingModels() bool {
	return !m.state.ModelsLoaded || m.state.Status == chat.StatusLoadingModels
}

func (m Model) animating() bool {
	return m.loadingModels() || m.state.Status == chat.StatusSending
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selector.open {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.updateSelector(key)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			return m, tea.Quit

		case "ctrl+o":
			m.openSelector()
			return m, nil

		case "up", "down", "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case "enter":
			return m.submit()
		}

		if m.inputEnabled() {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case modelsLoadedMsg, sendDoneMsg, stateChangedMsg:
		m.refresh()

	case spinner.TickMsg:
		if m.animating() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.animating() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	default:
		if m.inputEnabled() {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) inputEnabled() bool {
	return m.state.ChatReady() && !m.loadingModels() && !m.state.Busy()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 3
	statusHeight := 1
	bannerHeight := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - bannerHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = contentWidth - 6
	m.updateViewport()
}

// refresh re-reads the session snapshot and redraws the transcript
func (m *Model) refresh() {
	prev := len(m.state.Messages)
	m.state = m.session.Snapshot()
	if len(m.state.Messages) != prev {
		m.updateViewport()
		m.viewport.GotoBottom()
	}
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeIsError = isError
}

// submit handles Enter: exit words, slash commands, or a send
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	trimmed := strings.TrimSpace(value)
	m.setNotice("", false)

	if isExitCommand(trimmed) {
		return m, tea.Quit
	}

	if cmd, ok := parseCommand(trimmed); ok {
		m.input.Reset()
		return m.runCommand(cmd)
	}

	if !m.inputEnabled() {
		return m, nil
	}

	ctrl := m.session.Controller()
	ctrl.SetInput(value)
	ex, err := ctrl.BeginInput()
	switch {
	case err != nil:
		m.setNotice(err.Error(), true)
		return m, nil
	case ex == nil:
		m.input.Reset()
		return m, nil
	}

	m.input.Reset()
	m.animationFrame = 0
	m.refresh()

	return m, tea.Batch(
		runExchange(m.ctx, ex),
		m.spinner.Tick,
		animationTick(),
	)
}

// lastReply returns the most recent assistant message
func lastReply(messages []models.Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsUser() {
			return messages[i].Text, true
		}
	}
	return "", false
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.viewport.Width
	sections := []string{m.renderHeader(contentWidth)}

	switch {
	case m.loadingModels():
		sections = append(sections, m.renderLoadingModels(contentWidth))

	case m.state.ModelFetchFailed:
		sections = append(sections, m.renderFetchFailed(contentWidth))

	case m.selector.open:
		sections = append(sections, m.renderSelector())

	default:
		var messagesContent string
		if len(m.state.Messages) == 0 {
			messagesContent = m.renderWelcome()
		} else {
			messagesContent = m.viewport.View()
		}
		sections = append(sections, messagesAreaStyle.
			Width(contentWidth).
			Height(m.viewport.Height).
			Render(messagesContent))

		var inputContent string
		if m.state.Status == chat.StatusSending {
			inputContent = m.renderSendingAnimation()
		} else {
			inputContent = m.input.View()
		}
		sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

		if m.state.Error != "" {
			sections = append(sections, errorStyle.Render("⚠ "+m.state.Error))
		}
	}

	if m.notice != "" {
		if m.noticeIsError {
			sections = append(sections, errorStyle.Render(m.notice))
		} else {
			sections = append(sections, noticeStyle.Render(m.notice))
		}
	}

	sections = append(sections, m.renderStatusBar(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	model := m.state.Selection
	if model == "" {
		model = "no model"
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Ollama Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(model),
	)
	return headerStyle.Width(width).Render(content)
}

func (m Model) renderLoadingModels(width int) string {
	line := m.spinner.View() + " " + loadingStyle.Render(loadingModelsText)
	return messagesAreaStyle.Width(width).Height(m.viewport.Height).Render(line)
}

func (m Model) renderFetchFailed(width int) string {
	lines := []string{errorStyle.Render("⚠ " + m.state.Error)}
	if m.cfg.ServerURL != "" {
		lines = append(lines, hintStyle.Render("Server: "+m.cfg.ServerURL))
	}
	lines = append(lines, hintStyle.Render("Press Esc to quit"))
	return messagesAreaStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to Ollama Chat"),
		"",
		hintStyle.Width(width).Align(lipgloss.Center).Render("Start a conversation by typing a message below"),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderSendingAnimation renders the animated indicator shown while a
// request is in flight
func (m Model) renderSendingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(sendingText)
	return fmt.Sprintf("%s %s %s", spin, text, dots.String())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+O", "Models"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}
	if m.selector.open {
		shortcuts = []struct {
			key  string
			desc string
		}{
			{"↑↓", "Navigate"},
			{"Enter", "Select"},
			{"Esc", "Cancel"},
		}
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	opts := m.cfg.Render.WithWidth(bubbleWidth - 4)

	for i, msg := range m.state.Messages {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.IsUser() {
			content.WriteString(userLabelStyle.Render("● You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		} else {
			content.WriteString(assistantLabelStyle.Render("✦ Assistant") + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(msg.Text, opts)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}
