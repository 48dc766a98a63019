// ABOUTME: Reveal session orchestration
// ABOUTME: Coordinates the gift, playback controller, audio output, export and UI
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vitruviano/whisper-go/internal/artwork"
	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/internal/ui"
	"github.com/vitruviano/whisper-go/pkg/audio/encode"
	"github.com/vitruviano/whisper-go/pkg/audio/output"
	"github.com/vitruviano/whisper-go/pkg/playback"
	"go.uber.org/zap"
)

// Config holds session configuration
type Config struct {
	Gift *gift.Gift

	// Device renders audio (default: system output via oto)
	Device output.Device

	UseTUI  bool
	Volume  int
	Muted   bool
	Epsilon time.Duration

	// ExportDir receives exported files (default: current directory)
	ExportDir string

	// Artwork resolves the gift image on export (optional)
	Artwork *artwork.Downloader

	Logger *zap.Logger
}

// volumeSetter is implemented by devices with software volume
type volumeSetter interface {
	SetVolume(volume int)
	SetMuted(muted bool)
}

// Player is one reveal session
type Player struct {
	config     Config
	logger     *zap.Logger
	controller *playback.Controller

	mu      sync.Mutex
	tuiProg *tea.Program

	statusChan chan playback.Status
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates a session and loads the gift's audio
func New(config Config) (*Player, error) {
	if config.Gift == nil {
		return nil, errors.New("session requires a gift")
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Device == nil {
		config.Device = output.NewOto(config.Logger)
	}
	if config.Volume == 0 {
		config.Volume = 100
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		config:     config,
		logger:     config.Logger,
		statusChan: make(chan playback.Status, 16),
		ctx:        ctx,
		cancel:     cancel,
	}

	if vs, ok := config.Device.(volumeSetter); ok {
		vs.SetVolume(config.Volume)
		vs.SetMuted(config.Muted)
	}

	p.controller = playback.NewController(playback.ControllerConfig{
		Device:        config.Device,
		Epsilon:       config.Epsilon,
		OnStateChange: p.onStateChange,
		Logger:        config.Logger,
	})

	if config.Gift.HasAudio() {
		if err := p.controller.Load(config.Gift.AudioBase64); err != nil {
			p.controller.Close()
			cancel()
			return nil, fmt.Errorf("failed to load whisper audio: %w", err)
		}
	}

	return p, nil
}

// Controller returns the session's playback controller
func (p *Player) Controller() *playback.Controller {
	return p.controller
}

// Start runs the session until the card is closed, playback ends (no TUI) or Stop
func (p *Player) Start() error {
	if p.config.UseTUI {
		return p.runTUI()
	}
	return p.runHeadless()
}

// runTUI shows the reveal card and autoplays
func (p *Player) runTUI() error {
	volCtrl := ui.NewVolumeControl()

	prog, err := ui.Run(p.config.Gift, ui.Options{
		Player:        p.controller,
		Export:        p.Export,
		Volume:        volCtrl,
		InitialVolume: p.config.Volume,
		Muted:         p.config.Muted,
	})
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	p.mu.Lock()
	p.tuiProg = prog
	p.mu.Unlock()

	go p.handleControls(volCtrl)

	if p.controller.Status().Loaded {
		if err := p.controller.Play(); err != nil {
			p.logger.Warn("Autoplay failed", zap.Error(err))
		}
	}

	go func() {
		<-p.ctx.Done()
		prog.Quit()
	}()

	_, err = prog.Run()
	return err
}

// runHeadless plays the whisper once and returns when it ends
func (p *Player) runHeadless() error {
	if !p.controller.Status().Loaded {
		return errors.New("gift has no audio")
	}

	if err := p.controller.Play(); err != nil {
		return err
	}

	p.logger.Info("Playing whisper",
		zap.String("gift", p.config.Gift.ID),
		zap.Duration("duration", p.controller.Status().Duration))

	// Stopped statuses queued by Load precede the Playing transition
	started := false
	for {
		select {
		case s := <-p.statusChan:
			switch {
			case s.State == playback.Playing:
				started = true
			case started:
				p.logger.Info("Whisper finished")
				return nil
			}
		case <-p.ctx.Done():
			return nil
		}
	}
}

// onStateChange forwards controller transitions to the UI or headless waiter
func (p *Player) onStateChange(s playback.Status) {
	p.mu.Lock()
	prog := p.tuiProg
	p.mu.Unlock()

	if prog != nil {
		prog.Send(ui.StatusMsg(s))
		return
	}

	select {
	case p.statusChan <- s:
	default:
	}
}

// handleControls applies volume changes and quit requests from the card
func (p *Player) handleControls(volCtrl *ui.VolumeControl) {
	vs, _ := p.config.Device.(volumeSetter)

	for {
		select {
		case vol := <-volCtrl.Changes:
			p.logger.Debug("Volume change", zap.Int("volume", vol.Volume), zap.Bool("muted", vol.Muted))
			if vs != nil {
				vs.SetVolume(vol.Volume)
				vs.SetMuted(vol.Muted)
			}
		case <-volCtrl.Quit:
			p.logger.Info("Received quit signal from TUI")
			p.cancel()
			return
		case <-p.ctx.Done():
			return
		}
	}
}

// Export writes the whisper WAV, and the image when there is one, into ExportDir
func (p *Player) Export() (string, error) {
	dir := p.config.ExportDir
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, p.config.Gift.ExportName())
	if err := ExportWAV(p.config.Gift, path); err != nil {
		return "", err
	}
	p.logger.Info("Whisper exported", zap.String("path", path))

	if p.config.Artwork != nil && p.config.Gift.ImageURL != "" {
		imagePath := strings.TrimSuffix(path, filepath.Ext(path)) + ImageExtension(p.config.Gift.ImageURL)
		if err := p.config.Artwork.Export(p.config.Gift.ImageURL, imagePath); err != nil {
			p.logger.Warn("Image export failed", zap.Error(err))
		}
	}

	return path, nil
}

// Stop ends the session and releases the audio device
func (p *Player) Stop() {
	p.cancel()
	if err := p.controller.Close(); err != nil {
		p.logger.Warn("Error closing audio output", zap.Error(err))
	}
}

// ExportWAV writes the gift's audio as a WAV file at path
func ExportWAV(g *gift.Gift, path string) error {
	if !g.HasAudio() {
		return errors.New("gift has no audio")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := encode.WriteWAV(f, g.AudioBase64); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to export whisper: %w", err)
	}
	return f.Close()
}

// ImageExtension picks a file extension for an image URL
func ImageExtension(imageURL string) string {
	switch {
	case strings.HasPrefix(imageURL, "data:image/png"):
		return ".png"
	case strings.HasPrefix(imageURL, "data:image/webp"):
		return ".webp"
	case strings.HasPrefix(imageURL, "data:"):
		return ".jpg"
	}

	ext := filepath.Ext(strings.SplitN(imageURL, "?", 2)[0])
	if ext == "" || len(ext) > 5 {
		return ".jpg"
	}
	return ext
}
