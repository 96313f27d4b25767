package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/rasterpad/internal/codec"
	"github.com/example/rasterpad/internal/config"
	"github.com/example/rasterpad/internal/menu"
	"github.com/example/rasterpad/internal/notify"
	"github.com/example/rasterpad/internal/palette"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	notifier   *notify.Notifier
	config     *config.Config
	palette    *palette.Palette
	openAlerts bool
	saveAlerts bool
	copyAlerts bool
	formatName string
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("rasterpad", flag.ExitOnError),
		program:  "rasterpad",
		notifier: notify.New(prefs),
		config:   cfg,
		palette:  cfg.BuildPalette(),
	}
	r.fs.BoolVar(&r.openAlerts, "notify-open", cfg.Notify.Open, "show a desktop notification after opening an image")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.formatName, "format", "", "encoding used when a save path has no known extension (png, bmp, tiff)")
	r.fs.Usage = usageFunc(r)
	return r
}

// format resolves the default save encoding.
func (r *root) format() (codec.Format, error) {
	name := r.formatName
	if name == "" {
		name = os.Getenv("RASTERPAD_FORMAT")
	}
	if name == "" {
		name = r.settings().Format
	}
	return codec.ParseFormat(name)
}

// editorOptions returns the menu options shared by every command.
func (r *root) editorOptions() ([]menu.Option, error) {
	f, err := r.format()
	if err != nil {
		return nil, err
	}
	opts := []menu.Option{menu.WithFormat(f)}
	if r.notifier != nil {
		opts = append(opts, menu.WithNotifier(r.notifier))
	}
	return opts, nil
}

// settings returns the loaded configuration, or defaults when there is none.
func (r *root) settings() *config.Config {
	if r.config == nil {
		r.config = config.New()
	}
	return r.config
}

func (r *root) colors() *palette.Palette {
	if r.palette == nil {
		r.palette = r.settings().BuildPalette()
	}
	return r.palette
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventOpen, r.openAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := strings.ToLower(r.fs.Arg(0))
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "invert", "clear", "fill":
		cmd, err = parseEditCmd(cmdName, subArgs, r)
	case "line":
		cmd, err = parseLineCmd(subArgs, r)
	case "new":
		cmd, err = parseNewCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "colors":
		cmd = &colorsCmd{r: r}
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
