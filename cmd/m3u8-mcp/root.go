package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dublyo/m3u8-mcp/internal/config"
	"github.com/dublyo/m3u8-mcp/internal/mcp"
	"github.com/dublyo/m3u8-mcp/internal/server"
	"github.com/dublyo/m3u8-mcp/internal/tools"
)

var (
	flagStdio  bool
	flagConfig string
	flagURL    string
)

var errNoCaptureUI = errors.New("the capture UI is not part of this build; set capture_ui.command (or M3U8_MCP_CAPTURE_UI) to a capture front end, or run with --stdio to start the MCP server")

var rootCmd = &cobra.Command{
	Use:   "m3u8-mcp",
	Short: "MCP server for inspecting and downloading m3u8 (HLS) streams",
	Long: `m3u8-mcp serves m3u8 playlist tools to MCP clients over stdin/stdout.
Start it with --stdio from your MCP client configuration.

The open_capture_ui tool launches capture_ui.command with --url <url>.
When unset it relaunches this binary, which has no capture UI and exits,
so point it at a capture front end to use that tool.

Environment variables:
  M3U8_MCP_CONFIG      path to a YAML config file
  M3U8_MCP_LOG_LEVEL   debug or info
  M3U8_MCP_FFMPEG      ffmpeg executable
  M3U8_MCP_FFPROBE     ffprobe executable
  M3U8_MCP_CAPTURE_UI  capture UI executable`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagStdio {
			if flagURL != "" {
				log.Printf("[main] requested capture UI for %s", flagURL)
			}
			return errNoCaptureUI
		}
		return runStdio(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flagStdio, "stdio", false, "Run as an MCP server on stdin/stdout")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file (overrides M3U8_MCP_CONFIG)")
	rootCmd.Flags().StringVar(&flagURL, "url", "", "Start URL for the capture UI")
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

func runStdio(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Debug() {
		log.Printf("[main] %s %s (commit %s, built %s)", cfg.Server.Name, Version, Commit, Date)
	}

	fetcher, err := tools.NewHTTPFetcher(tools.FetchOptions{
		Timeout:      cfg.Fetch.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		AllowedHosts: cfg.Fetch.AllowedHosts,
		BlockPrivate: cfg.Fetch.BlockPrivate,
	})
	if err != nil {
		return fmt.Errorf("fetcher: %w", err)
	}

	registry := tools.NewM3U8Registry(tools.Options{
		Fetcher:          fetcher,
		Runner:           tools.ExecRunner{},
		Spawner:          tools.ProcessSpawner{},
		FFmpegPath:       cfg.FFmpeg.Path,
		FFmpegTimeout:    cfg.FFmpeg.Timeout,
		DefaultOutput:    cfg.FFmpeg.DefaultOutput,
		FFprobePath:      cfg.FFprobe.Path,
		FFprobeTimeout:   cfg.FFprobe.Timeout,
		CaptureUICommand: cfg.CaptureUI.Command,
	})
	registry.SetDebug(cfg.Debug())

	handler := mcp.NewHandler(registry, mcp.ServerInfo{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	})

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(handler, cfg.Debug())
	err = srv.Run(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		log.Println("[main] shutting down")
		return nil
	}
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
