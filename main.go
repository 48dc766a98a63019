// ABOUTME: Entry point for the whisper CLI
// ABOUTME: Plays, exports, speaks and serves whisper gifts
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/vitruviano/whisper-go/internal/app"
	"github.com/vitruviano/whisper-go/internal/artwork"
	"github.com/vitruviano/whisper-go/internal/client"
	"github.com/vitruviano/whisper-go/internal/config"
	"github.com/vitruviano/whisper-go/internal/discovery"
	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/internal/logging"
	"github.com/vitruviano/whisper-go/internal/server"
	"github.com/vitruviano/whisper-go/internal/synth"
	"github.com/vitruviano/whisper-go/internal/version"
	"github.com/vitruviano/whisper-go/pkg/audio/output"
	"github.com/vitruviano/whisper-go/pkg/audio/source"
	"go.uber.org/zap"
)

// Globals are flags shared by every command
type Globals struct {
	Config  string           `help:"Config file path" default:"whisper.yaml" type:"path"`
	LogFile string           `help:"Log file path (overrides config)"`
	NoTUI   bool             `name:"no-tui" help:"Disable TUI, use streaming logs instead"`
	Mute    bool             `help:"Track playback without opening an audio device"`
	Debug   bool             `help:"Enable debug logging"`
	Version kong.VersionFlag `help:"Show version information"`
}

// CLI is the command tree
type CLI struct {
	Globals

	Play   PlayCmd   `cmd:"" help:"Open the reveal card for a gift, payload or audio file"`
	Export ExportCmd `cmd:"" help:"Save a whisper as a WAV file"`
	Speak  SpeakCmd  `cmd:"" help:"Synthesize a whisper and open the reveal card"`
	Serve  ServeCmd  `cmd:"" help:"Run the whisper service"`
}

// env is the per-invocation runtime
type env struct {
	config  *config.Config
	logger  *zap.Logger
	cleanup func()
}

// setup loads configuration and builds the logger
func (g *Globals) setup(tui bool) (*env, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	logFile := cfg.Logging.File
	if g.LogFile != "" {
		logFile = g.LogFile
	}

	logger, cleanup, err := logging.New(logging.Options{
		File:  logFile,
		TUI:   tui,
		Debug: g.Debug || cfg.Logging.Debug,
	})
	if err != nil {
		return nil, err
	}

	return &env{config: cfg, logger: logger, cleanup: cleanup}, nil
}

// device picks the audio output
func (g *Globals) device(logger *zap.Logger) output.Device {
	if g.Mute {
		return output.NewSilent()
	}
	return output.NewOto(logger)
}

// PlayCmd opens the reveal card
type PlayCmd struct {
	Source string `arg:"" help:"Gift JSON, base64 payload (.b64/.txt), raw PCM or audio file (WAV, MP3, FLAC)" type:"existingfile"`
}

func (c *PlayCmd) Run(g *Globals) error {
	e, err := g.setup(!g.NoTUI)
	if err != nil {
		return err
	}
	defer e.cleanup()

	gf, err := loadGift(c.Source)
	if err != nil {
		return err
	}
	return runSession(g, e, gf, filepath.Dir(c.Source))
}

// ExportCmd writes the WAV file
type ExportCmd struct {
	Source string `arg:"" help:"Gift JSON, base64 payload, raw PCM or audio file" type:"existingfile"`
	Output string `short:"o" help:"Output WAV path" default:"whisper.wav"`
	Image  string `help:"Also save the gift image to this path"`
}

func (c *ExportCmd) Run(g *Globals) error {
	e, err := g.setup(false)
	if err != nil {
		return err
	}
	defer e.cleanup()

	gf, err := loadGift(c.Source)
	if err != nil {
		return err
	}

	if err := app.ExportWAV(gf, c.Output); err != nil {
		return err
	}
	e.logger.Info("Whisper exported", zap.String("path", c.Output))
	fmt.Println(c.Output)

	if c.Image != "" {
		dl, err := artwork.NewDownloader("", e.logger)
		if err != nil {
			return err
		}
		if err := dl.Export(gf.ImageURL, c.Image); err != nil {
			return fmt.Errorf("image export failed: %w", err)
		}
		fmt.Println(c.Image)
	}
	return nil
}

// SpeakCmd synthesizes a whisper locally or through a service
type SpeakCmd struct {
	Text     []string `arg:"" help:"Message to speak"`
	Mode     string   `help:"Delivery mode: asmr, mantra or confidence (default from config)"`
	Server   string   `help:"Whisper service address (host:port)"`
	Discover bool     `help:"Find a whisper service via mDNS"`
	Save     string   `help:"Save the gift JSON to this path"`
}

func (c *SpeakCmd) Run(g *Globals) error {
	e, err := g.setup(!g.NoTUI)
	if err != nil {
		return err
	}
	defer e.cleanup()

	modeName := c.Mode
	if modeName == "" {
		modeName = e.config.Synth.Mode
	}
	mode, err := gift.ParseMode(modeName)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(e.config.Synth.Timeout)
	defer cancel()

	synthesizer, closeSynth, err := c.synthesizer(ctx, e)
	if err != nil {
		return err
	}
	defer closeSynth()

	message := strings.Join(c.Text, " ")
	payload, err := synthesizer.Synthesize(ctx, message, mode)
	if err != nil {
		return err
	}

	gf := gift.New(message, mode)
	gf.AudioBase64 = payload

	if c.Save != "" {
		if err := saveGift(gf, c.Save); err != nil {
			return err
		}
	}

	return runSession(g, e, gf, ".")
}

// synthesizer picks the remote service or local Gemini
func (c *SpeakCmd) synthesizer(ctx context.Context, e *env) (synth.Synthesizer, func(), error) {
	addr := c.Server
	if addr == "" && c.Discover {
		mgr := discovery.NewManager(discovery.Config{Logger: e.logger})
		defer mgr.Stop()

		dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		found, err := mgr.Discover(dctx)
		if err != nil {
			return nil, nil, err
		}
		addr = found.Addr()
	}

	if addr != "" {
		cl := client.NewClient(client.Config{ServerAddr: addr, Logger: e.logger})
		if err := cl.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return cl, func() { cl.Close() }, nil
	}

	gemini, err := synth.NewGemini(ctx, synth.GeminiConfig{
		APIKey: e.config.Synth.APIKey,
		Model:  e.config.Synth.Model,
		Logger: e.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set GEMINI_API_KEY or use --server)", err)
	}
	return gemini, func() {}, nil
}

// ServeCmd runs the service
type ServeCmd struct {
	Port int    `help:"Listen port (overrides config)"`
	Name string `help:"Service name for mDNS"`
	MDNS bool   `name:"mdns" help:"Advertise via mDNS (also requires server.mdns in config)" default:"true" negatable:""`
}

func (c *ServeCmd) Run(g *Globals) error {
	e, err := g.setup(!g.NoTUI)
	if err != nil {
		return err
	}
	defer e.cleanup()

	port := e.config.Server.Port
	if c.Port != 0 {
		port = c.Port
	}
	name := e.config.Server.ServiceName
	if c.Name != "" {
		name = c.Name
	}
	mdns := e.config.Server.MDNS && c.MDNS

	gemini, err := synth.NewGemini(context.Background(), synth.GeminiConfig{
		APIKey: e.config.Synth.APIKey,
		Model:  e.config.Synth.Model,
		Logger: e.logger,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:         port,
		Name:         name,
		EnableMDNS:   mdns,
		UseTUI:       !g.NoTUI,
		Synth:        gemini,
		SynthTimeout: e.config.Synth.Timeout,
		Logger:       e.logger,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		e.logger.Info("Received signal, shutting down gracefully", zap.String("signal", sig.String()))
		srv.Stop()
	}()

	return srv.Start()
}

// runSession plays a gift with the reveal card or headless
func runSession(g *Globals, e *env, gf *gift.Gift, exportDir string) error {
	dl, err := artwork.NewDownloader("", e.logger)
	if err != nil {
		e.logger.Warn("Artwork disabled", zap.Error(err))
		dl = nil
	}

	player, err := app.New(app.Config{
		Gift:      gf,
		Device:    g.device(e.logger),
		UseTUI:    !g.NoTUI,
		Volume:    e.config.Playback.Volume,
		Muted:     e.config.Playback.Muted,
		Epsilon:   e.config.Playback.Epsilon,
		ExportDir: exportDir,
		Artwork:   dl,
		Logger:    e.logger,
	})
	if err != nil {
		return err
	}
	defer player.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		if _, ok := <-sigChan; ok {
			e.logger.Info("Shutdown signal received")
			player.Stop()
		}
	}()

	return player.Start()
}

// loadGift reads a gift JSON or wraps an audio source in a gift
func loadGift(path string) (*gift.Gift, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return gift.Load(path)
	}

	payload, err := source.LoadFile(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	gf := gift.New(name, gift.DefaultMode)
	gf.AudioBase64 = payload
	return gf, nil
}

// saveGift writes gift JSON
func saveGift(gf *gift.Gift, path string) error {
	data, err := json.MarshalIndent(gf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// signalContext is cancelled on SIGINT/SIGTERM or after timeout
func signalContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("whisper"),
		kong.Description(version.Product+": play, export and synthesize voice gifts."),
		kong.Vars{"version": version.Product + " " + version.Version},
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "whisper: %v\n", err)
		os.Exit(1)
	}
}
