// KitchenTape — record a cooking session, keep the recipe.
//
// Usage:
//
//	kitchentape [-verbose] [-quiet] [-config kitchentape.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/kitchentape/internal/capture"
	"github.com/hammamikhairi/kitchentape/internal/config"
	"github.com/hammamikhairi/kitchentape/internal/conversation"
	"github.com/hammamikhairi/kitchentape/internal/display"
	"github.com/hammamikhairi/kitchentape/internal/extract"
	"github.com/hammamikhairi/kitchentape/internal/library"
	"github.com/hammamikhairi/kitchentape/internal/logger"
	"github.com/hammamikhairi/kitchentape/internal/player"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".kitchentape/tape.log", "file to write logs to (use \"stderr\" to log to console)")
	configFile := flag.String("config", "", "path to a YAML config file")
	user := flag.String("user", "", "acting user for likes, saves, and comments (overrides config)")
	noPlayback := flag.Bool("no-playback", false, "disable the audio playback preview")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *user != "" {
		cfg.Library.User = *user
	}

	// Configure logger. Flags win over the config file.
	logLevel := logger.ParseLevel(cfg.Log.Level)
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	logPath := *logFile
	if cfg.Log.File != "" && !flagSet("log-file") {
		logPath = cfg.Log.File
	}
	var logOut io.Writer = os.Stderr
	if logPath != "" && logPath != "stderr" {
		dir := filepath.Dir(logPath)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", logPath, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package (used by third-party audio libs)
	// to the same output so it doesn't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	store := library.NewMemoryStore(log)
	extractor := extract.NewPlaceholder(log)
	svc := library.New(store, store, extractor, log, library.WithUser(cfg.Library.User))
	ui := display.NewUI()
	notifier := conversation.NewCLINotifier(log, ui.Printf)
	parser := conversation.NewKeywordParser(log)
	gate := capture.NewGate(capture.NewMiniaudioOpener(log), log)

	// Playback preview. Optional: the rest of the app works without an
	// output device.
	var speaker *player.Player
	if !*noPlayback {
		p, err := player.New(log, cfg.Capture.SampleRate, cfg.Capture.Channels)
		if err != nil {
			log.Warn("audio output unavailable, playback disabled: %v", err)
		} else {
			speaker = p
		}
	}

	app := &cliApp{
		gate:        gate,
		constraints: cfg.Constraints(),
		library:     svc,
		parser:      parser,
		notifier:    notifier,
		speaker:     speaker,
		log:         log,
		ui:          ui,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'record' to start taping, 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	app.shutdown()
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
