// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent recording status bar and an input
// prompt at the bottom of the terminal. All application output is
// printed above the rendered area via Program.Println / Printf,
// ensuring concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/kitchentape/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	recStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// ── Output styles (soft palette) ──

	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Recipe names and section headers — soft mint.
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Primary text — light zinc for recipe bodies and listings.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints, tips, metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent — soft coral for errors/alerts.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// ── UI ───────────────────────────────────────────────────────────

// StatusProvider reports the live recording state shown in the status
// bar. A capture session satisfies it.
type StatusProvider interface {
	Phase() domain.RecordingPhase
	Elapsed() int
	HasAccess() bool
	InputLevel() float64
}

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking).  Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool

	mu     sync.Mutex
	status StatusProvider // nil until a session is attached
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// SetStatus points the status bar at a recording session. Passing nil
// clears the bar. Safe to call while the UI is running.
func (u *UI) SetStatus(sp StatusProvider) {
	u.mu.Lock()
	u.status = sp
	u.mu.Unlock()
}

func (u *UI) snapshot() (statusInfo, bool) {
	u.mu.Lock()
	sp := u.status
	u.mu.Unlock()
	if sp == nil {
		return statusInfo{}, false
	}
	return statusInfo{
		phase:   sp.Phase(),
		elapsed: sp.Elapsed(),
		access:  sp.HasAccess(),
		level:   sp.InputLevel(),
	}, true
}

// Println prints a line above the prompt. Thread-safe.
// Each argument is converted via fmt.Sprint and printed on its own
// line(s).  If the program hasn't started yet, falls back to
// fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
// The output is printed on its own line (a trailing newline in the
// format string will produce an extra blank line).
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────
// These give output visual hierarchy with lipgloss colors.

// PrintHeader prints a recipe name or section header line.
func (u *UI) PrintHeader(text string) {
	u.Println(headerStyle.Render("  " + text))
}

// PrintBody prints a primary content line.
func (u *UI) PrintBody(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("tape") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop.  Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Use a plain-text prompt so the textinput width math stays correct.
	// Lipgloss-styled prompts add invisible ANSI bytes that break the
	// internal offset/scroll calculations for long input.
	ti.Prompt = "tape> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		input:    ti,
		inputCh:  u.inputCh,
		readyCh:  u.readyCh,
		statusFn: u.snapshot,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input    textinput.Model
	inputCh  chan<- string
	readyCh  chan struct{}
	statusFn func() (statusInfo, bool)
	echoFn   func(string) // prints user input into scrollback
	status   statusInfo
	hasBar   bool
	width    int
}

type statusInfo struct {
	phase   domain.RecordingPhase
	elapsed int
	access  bool
	level   float64
}

// Messages.
type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Return a Cmd that prints the echo — this runs
				// outside Update so it won't deadlock on msgs.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Let the text input use the full width minus the prompt ("tape> " = 6 chars).
		const promptLen = 6
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case tickMsg:
		m.status, m.hasBar = m.statusFn()
		cmds := []tea.Cmd{tickCmd()}
		if m.hasBar {
			cmds = append(cmds, tea.SetWindowTitle(m.titleStr()))
		} else {
			cmds = append(cmds, tea.SetWindowTitle("KitchenTape"))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) titleStr() string {
	switch m.status.phase {
	case domain.PhaseRecording:
		return "KitchenTape — REC " + FormatElapsed(m.status.elapsed)
	case domain.PhasePaused:
		return "KitchenTape — paused " + FormatElapsed(m.status.elapsed)
	default:
		return "KitchenTape"
	}
}

func (m model) View() string {
	var b strings.Builder

	if m.hasBar {
		b.WriteString(m.renderBar())
		b.WriteByte('\n')
	}

	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	var parts []string

	switch m.status.phase {
	case domain.PhaseRecording:
		parts = append(parts, recStyle.Render("● REC"))
		parts = append(parts,
			labelStyle.Render("elapsed: ")+recStyle.Render(FormatElapsed(m.status.elapsed)))
		parts = append(parts, labelStyle.Render("mic ")+renderMeter(m.status.level))
	case domain.PhasePaused:
		parts = append(parts, pausedStyle.Render("❚❚ paused"))
		parts = append(parts,
			labelStyle.Render("elapsed: ")+pausedStyle.Render(FormatElapsed(m.status.elapsed)))
	case domain.PhaseReady:
		parts = append(parts, idleStyle.Render("mic ready"))
	case domain.PhaseStopped:
		parts = append(parts,
			idleStyle.Render("stopped at "+FormatElapsed(m.status.elapsed)))
	default:
		if m.status.access {
			parts = append(parts, idleStyle.Render("idle"))
		} else {
			parts = append(parts, idleStyle.Render("no mic access"))
		}
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

// ── Helpers ──────────────────────────────────────────────────────

// FormatElapsed renders whole seconds as zero-padded MM:SS. Durations of
// an hour or more keep growing the minute field.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// renderMeter draws a small input level meter from a 0..1 RMS level.
func renderMeter(level float64) string {
	const width = 8
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level*float64(width) + 0.5)
	return recStyle.Render(strings.Repeat("▰", filled)) +
		secondaryStyle.Render(strings.Repeat("▱", width-filled))
}
