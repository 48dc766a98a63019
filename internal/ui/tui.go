// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the reveal card
package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vitruviano/whisper-go/internal/gift"
)

// VolumeControl holds channels for volume control communication
type VolumeControl struct {
	Changes chan VolumeChangeMsg
	Quit    chan QuitMsg
}

// NewVolumeControl creates a new volume control handler
func NewVolumeControl() *VolumeControl {
	return &VolumeControl{
		Changes: make(chan VolumeChangeMsg, 10),
		Quit:    make(chan QuitMsg, 1),
	}
}

// Options configures the reveal card
type Options struct {
	// Player drives playback; nil shows the card without controls
	Player Player

	// Export saves the whisper and returns the written path
	Export func() (string, error)

	// Volume receives volume and quit events (optional)
	Volume *VolumeControl

	// InitialVolume is the starting volume (default: 100)
	InitialVolume int
	Muted         bool
}

// NewModel creates a new TUI model
func NewModel(g *gift.Gift, opts Options) Model {
	volume := opts.InitialVolume
	if volume == 0 {
		volume = 100
	}

	m := Model{
		gift:   g,
		player: opts.Player,
		export: opts.Export,
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		volume:     volume,
		muted:      opts.Muted,
		volumeCtrl: opts.Volume,
	}
	if opts.Player != nil {
		m.status = opts.Player.Status()
	}
	return m
}

// Run starts the TUI program
func Run(g *gift.Gift, opts Options) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(g, opts), tea.WithAltScreen())
	return p, nil
}
