package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/xeptore/flaw/v8"

	"github.com/handiism/soundcloud-downloader/internal/config"
	"github.com/handiism/soundcloud-downloader/internal/download"
	"github.com/handiism/soundcloud-downloader/internal/log"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud"
)

const (
	flagNumTracks  = "num-tracks"
	flagDryRun     = "dry-run"
	flagOutputDir  = "output-dir"
	flagLedgerFile = "ledger-file"
	flagConfig     = "config"
	flagClientID   = "client-id"
	flagPageCap    = "page-cap"
	flagLogFile    = "log-file"
	flagVerbose    = "verbose"
	flagPlaylist   = "playlist"
)

const resolutionFailedMessage = "Error while resolving SoundCloud URL, verify that it's valid."

func main() {
	console := log.NewPretty(os.Stderr, zerolog.WarnLevel)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		console.Fatal().Err(err).Msg("Failed to load .env file")
	}

	defaults := config.DefaultSettings()
	app := &cli.App{
		Name:      "scdl",
		Usage:     "Download a SoundCloud user's likes or playlists as tagged MP3 files",
		ArgsUsage: "<URL|username>",
		Suggest:   true,
		Action:    run,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: flagNumTracks, Aliases: []string{"n"}, Value: defaults.NumTracks, Usage: "number of tracks to process per collection"},
			&cli.BoolFlag{Name: flagDryRun, Usage: "list tracks but don't download"},
			&cli.StringFlag{Name: flagOutputDir, Aliases: []string{"o"}, Value: defaults.OutputDir, Usage: "root directory for downloads"},
			&cli.StringFlag{Name: flagLedgerFile, Value: defaults.LedgerFile, Usage: "download ledger file, relative to each collection directory unless absolute"},
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: flagClientID, EnvVars: []string{config.EnvClientID}, Usage: "SoundCloud API client id"},
			&cli.IntFlag{Name: flagPageCap, Value: defaults.PageCap, Usage: "largest page requested from the API"},
			&cli.StringFlag{Name: flagLogFile, Value: "scdl.log", Usage: "debug log file"},
			&cli.BoolFlag{Name: flagVerbose, Aliases: []string{"v"}, Usage: "show verbose output"},
			&cli.StringFlag{Name: flagPlaylist, Usage: "write a playlist per collection (m3u, pls, wpl, zpl)"},
		},
	}

	// Exit errors are printed and handled by app.Run itself.
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func loadSettings(cliCtx *cli.Context) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if path := cliCtx.String(flagConfig); path != "" {
		s, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %v", err)
		}
		settings = s
	} else {
		settings.ApplyEnv()
	}

	if cliCtx.IsSet(flagNumTracks) {
		settings.NumTracks = cliCtx.Int(flagNumTracks)
	}
	if cliCtx.IsSet(flagDryRun) {
		settings.DryRun = cliCtx.Bool(flagDryRun)
	}
	if cliCtx.IsSet(flagOutputDir) {
		settings.OutputDir = cliCtx.String(flagOutputDir)
	}
	if cliCtx.IsSet(flagLedgerFile) {
		settings.LedgerFile = cliCtx.String(flagLedgerFile)
	}
	if cliCtx.IsSet(flagClientID) {
		settings.ClientID = cliCtx.String(flagClientID)
	}
	if cliCtx.IsSet(flagPageCap) {
		settings.PageCap = cliCtx.Int(flagPageCap)
	}
	if format := cliCtx.String(flagPlaylist); format != "" {
		settings.CreatePlaylist = true
		settings.PlaylistFormat = format
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %v", err)
	}
	return settings, nil
}

func run(cliCtx *cli.Context) error {
	if cliCtx.NArg() != 1 {
		_ = cli.ShowAppHelp(cliCtx)
		return cli.Exit("exactly one URL or username is required", 1)
	}
	input := cliCtx.Args().First()

	ctx, cancel := signal.NotifyContext(cliCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logFile, err := os.OpenFile(cliCtx.String(flagLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger := log.NewPacked(logFile, zerolog.DebugLevel)

	settings, err := loadSettings(cliCtx)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("input", input).
		Int("num_tracks", settings.NumTracks).
		Bool("dry_run", settings.DryRun).
		Str("output_dir", settings.OutputDir).
		Str("ledger_file", settings.LedgerFile).
		Int("page_cap", settings.PageCap).
		Msg("Starting")

	verbose := cliCtx.Bool(flagVerbose)
	manager := download.NewManager(settings, logger, func(event download.ProgressEvent) {
		printEvent(event, verbose)
	})
	defer manager.Close()

	if err := manager.Initialize(ctx, input); err != nil {
		return fatal(logger, err)
	}
	if err := manager.StartDownloads(ctx); err != nil {
		return fatal(logger, err)
	}

	s := manager.Summary()
	logger.Info().
		Int("downloaded", s.Downloaded).
		Int("skipped", s.Skipped).
		Int("failed", s.Failed).
		Int("flagged", s.Flagged).
		Msg("Done")
	fmt.Println(summaryLine(s))
	return nil
}

func summaryLine(s download.Summary) string {
	line := fmt.Sprintf("Done. %d downloaded, %d skipped, %d failed.", s.Downloaded, s.Skipped, s.Failed)
	if s.Flagged > 0 {
		line += fmt.Sprintf(" %d downloaded without tags, see the log file.", s.Flagged)
	}
	return line
}

// fatal logs err with full detail and turns it into a one line exit error.
func fatal(logger zerolog.Logger, err error) error {
	var resErr *soundcloud.ResolutionError
	switch {
	case errors.As(err, &resErr):
		logger.Error().Err(err).Str("url", resErr.URL).Msg("Resolution failed")
		return cli.Exit(resolutionFailedMessage, 1)
	case errors.Is(err, soundcloud.ErrInvalidTarget):
		logger.Error().Err(err).Msg("Invalid target")
		return cli.Exit(resolutionFailedMessage, 1)
	case errors.Is(err, context.Canceled):
		logger.Warn().Msg("Interrupted")
		return cli.Exit("Interrupted.", 1)
	default:
		if flawErr := new(flaw.Flaw); errors.As(err, &flawErr) {
			logger.Error().Func(log.Flaw(err)).Msg("Run failed")
		} else {
			logger.Error().Err(err).Msg("Run failed")
		}
		return cli.Exit(fmt.Sprintf("ERROR: %v", err), 1)
	}
}

func printEvent(event download.ProgressEvent, verbose bool) {
	if event.Level == download.LevelVerbose && !verbose {
		return
	}

	var prefix string
	switch event.Level {
	case download.LevelError:
		prefix = "✗ "
	case download.LevelWarning:
		prefix = "! "
	case download.LevelSuccess:
		prefix = "✓ "
	case download.LevelInfo:
		prefix = "› "
	default:
		prefix = "  "
	}
	fmt.Println(prefix + event.Message)
}
