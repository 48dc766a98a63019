// ABOUTME: Entry point for the standalone whisper service
// ABOUTME: Parses flags, loads config and runs the service without the TUI
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/vitruviano/whisper-go/internal/config"
	"github.com/vitruviano/whisper-go/internal/logging"
	"github.com/vitruviano/whisper-go/internal/server"
	"github.com/vitruviano/whisper-go/internal/synth"
	"github.com/vitruviano/whisper-go/internal/version"
	"go.uber.org/zap"
)

var cli struct {
	Config  string           `help:"Config file path" default:"whisper.yaml" type:"path"`
	Port    int              `help:"HTTP port (overrides config)"`
	Name    string           `help:"Service friendly name (default: hostname-whisper)"`
	LogFile string           `help:"Log file path" default:"whisper-server.log"`
	Debug   bool             `help:"Enable debug logging"`
	NoMDNS  bool             `name:"no-mdns" help:"Disable mDNS advertisement"`
	Version kong.VersionFlag `help:"Show version information"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("whisper-server"),
		kong.Description("Standalone "+version.Product+" service."),
		kong.Vars{"version": version.Version},
		kong.UsageOnError(),
	)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "whisper-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.New(logging.Options{File: cli.LogFile, Debug: cli.Debug})
	if err != nil {
		return err
	}
	defer cleanup()

	port := cfg.Server.Port
	if cli.Port != 0 {
		port = cli.Port
	}

	serverName := cli.Name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-whisper", hostname)
	}

	logger.Info("Starting whisper service",
		zap.String("name", serverName),
		zap.Int("port", port),
		zap.String("log_file", cli.LogFile))

	gemini, err := synth.NewGemini(context.Background(), synth.GeminiConfig{
		APIKey: cfg.Synth.APIKey,
		Model:  cfg.Synth.Model,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:         port,
		Name:         serverName,
		EnableMDNS:   cfg.Server.MDNS && !cli.NoMDNS,
		Synth:        gemini,
		SynthTimeout: cfg.Synth.Timeout,
		Logger:       logger,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, shutting down gracefully", zap.String("signal", sig.String()))
		srv.Stop()
	}()

	return srv.Start()
}
