package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"viewz"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	width := flag.Int("width", 0, "render width (default: terminal width)")
	step := flag.Float64("step", -1, "weight lost per nesting level")
	title := flag.String("title", "", "root screen title")
	static := flag.Bool("static", false, "print one pass and exit")
	plain := flag.Bool("plain", false, "no colors in static output")
	flag.Parse()

	if err := run(*configPath, *width, *step, *title, *static, *plain); err != nil {
		fmt.Fprintln(os.Stderr, "viewz:", err)
		os.Exit(1)
	}
}

func run(configPath string, width int, step float64, title string, static, plain bool) error {
	cfg := viewz.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = viewz.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if step >= 0 {
		cfg.WeightStep = step
	}
	if title != "" {
		cfg.Title = title
	}
	if width > 0 {
		cfg.Width = width
	}

	log, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer log.Sync()
	viewz.SetLogger(log)

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if cfg.Width <= 0 {
		cfg.Width = 80
		if interactive {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				cfg.Width = w
			}
		}
	}

	painter, err := cfg.Painter()
	if err != nil {
		return err
	}
	r := viewz.NewRenderer(nil).Step(cfg.WeightStep)

	if static || !interactive {
		d := newDemo(context.Background(), func(fn func()) { fn() })
		fmt.Println(viewz.Dump(r, painter, d.Produce, cfg.Width, !plain && interactive))
		return nil
	}

	var b *viewz.Browser
	post := func(fn func()) { b.Post()(fn) }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newDemo(ctx, post)
	b = viewz.NewBrowser(r, cfg.Title, d.Produce)
	*b.Painter() = *painter
	b.Photos = d.Photos
	defer d.Stop()

	_, err = tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}
