package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/alecthomas/kong"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/ytget/yutto-gui/internal/config"
	"github.com/ytget/yutto-gui/internal/download"
	"github.com/ytget/yutto-gui/internal/events"
	"github.com/ytget/yutto-gui/internal/logging"
	"github.com/ytget/yutto-gui/internal/platform"
	"github.com/ytget/yutto-gui/internal/tui"
	"github.com/ytget/yutto-gui/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID = "io.github.ytget.yutto-gui"
)

// CLI holds command line flags. Empty values defer to the config file.
type CLI struct {
	Config     string           `help:"Read configuration from this file instead of the search path." type:"path"`
	Executable string           `help:"Downloader executable (config: ${config_executable})."`
	OutputDir  string           `help:"Initial output folder (config: ${config_output_dir})." type:"path"`
	TUI        bool             `help:"Run the terminal UI instead of the desktop window."`
	Verbose    bool             `short:"v" help:"Enable debug logging to stderr."`
	Version    kong.VersionFlag `help:"Print version and exit."`
}

// resolve merges flags over the loaded configuration
func (c *CLI) resolve(loaded *config.Config) (*config.Config, error) {
	cfg := loaded
	if c.Config != "" {
		fromFile, err := config.LoadFromFile(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = fromFile
	}
	if c.Executable != "" {
		cfg.Executable = c.Executable
	}
	if c.OutputDir != "" {
		cfg.OutputDir = c.OutputDir
	}
	cfg.TUI = cfg.TUI || c.TUI
	cfg.Verbose = cfg.Verbose || c.Verbose
	return cfg, cfg.Validate()
}

func main() {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		loaded = config.Default()
	}

	var cli CLI
	kong.Parse(&cli,
		kong.Name("yutto-gui"),
		kong.Description("Desktop and terminal front-end for the yutto downloader."),
		kong.UsageOnError(),
		kong.Vars{
			"version":           version,
			"config_executable": loaded.Executable,
			"config_output_dir": loaded.OutputDir,
		},
	)

	cfg, err := cli.resolve(loaded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting",
		zap.String("version", version),
		zap.String("executable", cfg.Executable),
		zap.Bool("tui", cfg.TUI))

	env := platform.ChildEnv()
	launcher := platform.NewLocalLauncher(logger.Named("process"))
	prober := platform.NewStreamProber(launcher, cfg.Executable, env, logger.Named("probe"))
	prober.SetTimeout(cfg.ParseTimeout)
	prober.SetKillGrace(cfg.KillGrace)

	queue := events.NewQueue()
	ctrl := download.NewController(launcher, prober, queue, download.Options{
		Executable: cfg.Executable,
		Env:        env,
		KillGrace:  cfg.KillGrace,
		Logger:     logger.Named("controller"),
	})

	if cfg.TUI {
		defer ctrl.Close()
		return tui.Run(ctrl, queue, tui.Options{
			OutputDir:    cfg.OutputDir,
			PollInterval: cfg.PollInterval,
			MaxLogLines:  cfg.MaxLogLines,
		})
	}

	a := app.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())

	w := a.NewWindow(ui.AppTitle)
	w.SetIcon(ui.LoadAppIcon())
	w.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	root := ui.NewRootUI(w, ctrl, ui.Options{
		OutputDir:   cfg.OutputDir,
		MaxLogLines: cfg.MaxLogLines,
		Logger:      logger.Named("ui"),
	})
	root.StartPump(clock.New(), cfg.PollInterval, queue)

	w.ShowAndRun()
	root.Shutdown()
	return nil
}
