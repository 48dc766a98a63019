// ABOUTME: Bubbletea model for the whisper reveal card
// ABOUTME: Defines card state, key handling and playback progress rendering
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/pkg/playback"
)

// tickInterval is how often the progress bar is refreshed
const tickInterval = 100 * time.Millisecond

var accent = lipgloss.Color("#C9A227")

// Player is the playback surface the card drives
type Player interface {
	Toggle() error
	Restart() error
	Status() playback.Status
}

// Model represents the TUI state
type Model struct {
	gift   *gift.Gift
	player Player
	export func() (string, error)

	status   playback.Status
	progress progress.Model
	notice   string
	err      error

	// Output
	volume int
	muted  bool

	volumeCtrl *VolumeControl

	width  int
	height int
}

// StatusMsg carries a playback status snapshot
type StatusMsg playback.Status

// VolumeChangeMsg requests an output volume change
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// QuitMsg signals that the card was closed
type QuitMsg struct{}

// actionMsg reports the outcome of a key action
type actionMsg struct {
	notice string
	err    error
}

type tickMsg time.Time

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, min(msg.Width-20, 50))
	case StatusMsg:
		m.status = playback.Status(msg)
	case tickMsg:
		if m.player != nil {
			m.status = m.player.Status()
		}
		return m, tick()
	case actionMsg:
		m.notice = msg.notice
		m.err = msg.err
		if m.player != nil {
			m.status = m.player.Status()
		}
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.volumeCtrl != nil {
			select {
			case m.volumeCtrl.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case " ", "p":
		if !m.canPlay() {
			return m, nil
		}
		return m, m.act(m.player.Toggle, "")
	case "r":
		if !m.canPlay() {
			return m, nil
		}
		return m, m.act(m.player.Restart, "Restarted")
	case "e":
		if m.export == nil {
			return m, nil
		}
		export := m.export
		return m, func() tea.Msg {
			path, err := export()
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{notice: "Saved " + path}
		}
	case "up":
		m.volume = min(100, m.volume+5)
		m.sendVolume()
	case "down":
		m.volume = max(0, m.volume-5)
		m.sendVolume()
	case "m":
		m.muted = !m.muted
		m.sendVolume()
	}

	return m, nil
}

// act runs a player action off the update loop
func (m Model) act(fn func() error, notice string) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: notice}
	}
}

// sendVolume forwards the volume without blocking the UI
func (m Model) sendVolume() {
	if m.volumeCtrl == nil {
		return
	}
	select {
	case m.volumeCtrl.Changes <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

// canPlay reports whether playback controls are live
func (m Model) canPlay() bool {
	return m.player != nil && m.status.Loaded && !m.status.Disabled
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString(m.renderMessage())
	s.WriteString(m.renderScore())
	s.WriteString(m.renderPlayback())
	s.WriteString(m.renderFooter())

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Render(s.String())
}

// renderHeader renders the title and recipient
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Whisper")

	var sub string
	switch {
	case m.gift.RecipientName != "" && m.gift.Occasion != "":
		sub = fmt.Sprintf("for %s, %s", m.gift.RecipientName, m.gift.Occasion)
	case m.gift.RecipientName != "":
		sub = "for " + m.gift.RecipientName
	case m.gift.Occasion != "":
		sub = m.gift.Occasion
	}

	if sub == "" {
		return title + "\n\n"
	}
	return title + "\n" + lipgloss.NewStyle().Faint(true).Render(sub) + "\n\n"
}

// renderMessage renders the message and quote
func (m Model) renderMessage() string {
	width := m.textWidth()

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Width(width).Render(m.gift.Message))
	s.WriteString("\n\n")

	if m.gift.Quote != "" {
		s.WriteString(lipgloss.NewStyle().Italic(true).Faint(true).Width(width).Render(m.gift.Quote))
		s.WriteString("\n\n")
	}
	return s.String()
}

// renderScore renders the score line, if any
func (m Model) renderScore() string {
	if m.gift.Score == nil {
		return ""
	}

	sc := m.gift.Score
	label := lipgloss.NewStyle().Faint(true)
	value := lipgloss.NewStyle().Bold(true)

	return fmt.Sprintf("%s %s  %s %s  %s %s  %s %s\n\n",
		label.Render("Resonance"), value.Render(fmt.Sprintf("%.0f", sc.Resonance)),
		label.Render("Alchemy"), value.Render(fmt.Sprintf("%.0f", sc.Alchemy)),
		label.Render("Harmony"), value.Render(fmt.Sprintf("%.0f", sc.Harmony)),
		label.Render("Overall"), value.Foreground(accent).Render(fmt.Sprintf("%.0f", sc.Overall)))
}

// renderPlayback renders the progress bar or a disabled label
func (m Model) renderPlayback() string {
	mode := lipgloss.NewStyle().Faint(true).
		Render(fmt.Sprintf("Mode: %s (%s)", m.gift.Mode, m.gift.Mode.Voice()))

	switch {
	case !m.status.Loaded:
		return mode + "\n" + lipgloss.NewStyle().Faint(true).Render("No audio") + "\n"
	case m.status.Disabled:
		return mode + "\n" + lipgloss.NewStyle().Faint(true).Render("Playback unavailable") + "\n"
	}

	icon := "▶"
	if m.status.State == playback.Playing {
		icon = "❚❚"
	}

	percent := 0.0
	if m.status.Duration > 0 {
		percent = float64(m.status.Position) / float64(m.status.Duration)
	}

	muted := ""
	if m.muted {
		muted = " (muted)"
	}

	return fmt.Sprintf("%s\n%s %s  %s / %s\nVolume: %d%%%s\n",
		mode,
		icon,
		m.progress.ViewAs(percent),
		formatDuration(m.status.Position),
		formatDuration(m.status.Duration),
		m.volume,
		muted)
}

// renderFooter renders notices and key help
func (m Model) renderFooter() string {
	var s strings.Builder
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	} else if m.notice != "" {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render(m.notice))
		s.WriteString("\n")
	}

	s.WriteString(lipgloss.NewStyle().Faint(true).
		Render("space/p: play/pause  r: restart  e: export  ↑/↓: volume  m: mute  q: quit"))
	return s.String()
}

// textWidth is the wrap width for message text
func (m Model) textWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(20, min(m.width-8, 72))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
