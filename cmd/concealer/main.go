// Package main is the entry point for the concealer previewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/dshills/concealer/internal/app"
	"github.com/dshills/concealer/internal/config"
	"github.com/dshills/concealer/internal/logging"
	"github.com/dshills/concealer/internal/preview"
	"github.com/dshills/concealer/internal/script"
	"github.com/dshills/concealer/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LogLevel   string
	Grammar    string
	Width      int
	Cursor     int
	TUI        bool
	Watch      bool
	ReadOnly   bool
	File       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(opts.LogLevel),
		Output: os.Stderr,
		Name:   "concealer",
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doc, scripts, err := openDocument(opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer scripts.Close()
	defer doc.Close()

	if err := doc.Enter(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	doc.MoveCursor(opts.Cursor)

	if !opts.TUI {
		fmt.Println(doc.Render(opts.Width))
		return 0
	}

	if err := runViewer(ctx, doc, opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func openDocument(opts options, logger *logging.Logger) (*app.Document, *script.State, error) {
	var cfg *config.Config
	if opts.ConfigPath != "" {
		c, err := config.NewLoader(nil).Load(opts.ConfigPath)
		if err != nil {
			return nil, nil, err
		}
		if c == nil {
			logger.Warn("config file %s not found, using defaults", opts.ConfigPath)
		}
		cfg = c
	}

	scripts := script.NewState(script.WithLogger(logger))
	docOpts := app.Options{
		Config:   cfg,
		Scripts:  scripts,
		ReadOnly: opts.ReadOnly,
		Logger:   logger,
		LegacySetup: func(toggles map[string]bool) {
			logger.Debug("legacy conceals: %v", toggles)
		},
	}
	switch opts.Grammar {
	case "norg":
	case "go":
		docOpts.Grammar = golang.GetLanguage()
		docOpts.Extensions = []string{".go"}
	}

	doc, err := app.Open(opts.File, docOpts)
	if err != nil {
		scripts.Close()
		return nil, nil, err
	}
	return doc, scripts, nil
}

func runViewer(ctx context.Context, doc *app.Document, opts options, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	redraw := make(chan struct{}, 1)
	if opts.Watch {
		w, err := watch.New(0, logger)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", opts.File, err)
		}
		defer w.Close()
		if err := w.Add(opts.File); err != nil {
			return fmt.Errorf("failed to watch %s: %w", opts.File, err)
		}
		go func() {
			err := w.Run(ctx, func(ev watch.Event) {
				if ev.Op.Has(watch.OpRemove) {
					return
				}
				if err := doc.Reload(ctx); err != nil {
					logger.Warn("reload %s: %v", ev.Path, err)
					return
				}
				select {
				case redraw <- struct{}{}:
				default:
				}
			})
			if err != nil && !errors.Is(err, watch.ErrClosed) {
				logger.Error("watch: %v", err)
			}
		}()
	}

	return preview.NewViewer(screen, preview.DefaultTheme(), doc).Run(ctx, redraw)
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to a TOML or YAML configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Grammar, "grammar", "norg", "Tree provider (norg, go)")
	flag.IntVar(&opts.Width, "width", 0, "Window width used for whole-line highlights")
	flag.IntVar(&opts.Cursor, "cursor", -1, "Cursor row whose markup stays visible")
	flag.BoolVar(&opts.TUI, "tui", false, "Open an interactive preview")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the preview when the file changes")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Do not pad code regions")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Do not pad code regions (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Concealer - syntax-driven concealment preview\n\n")
		fmt.Fprintf(os.Stderr, "Usage: concealer [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  concealer notes.norg                 Print the concealed document\n")
		fmt.Fprintf(os.Stderr, "  concealer -cursor 3 notes.norg        Keep row 3 unconcealed\n")
		fmt.Fprintf(os.Stderr, "  concealer -tui -watch notes.norg      Preview and follow edits\n")
		fmt.Fprintf(os.Stderr, "  concealer -grammar go -c go.toml x.go Conceal with a tree-sitter grammar\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Concealer %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	switch strings.ToLower(opts.Grammar) {
	case "norg", "go":
		opts.Grammar = strings.ToLower(opts.Grammar)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown grammar %q (must be norg or go)\n", opts.Grammar)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.File = flag.Arg(0)

	if opts.Watch && !opts.TUI {
		fmt.Fprintf(os.Stderr, "Error: -watch requires -tui\n")
		os.Exit(1)
	}

	return opts
}
