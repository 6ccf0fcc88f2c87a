// Package config collects the settings the app starts with.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
)

const (
	DefaultPort        = 8899
	DefaultCanvasSize  = 720
	DefaultStrokeWidth = 3

	prefPicturesDir = "picturesDir"
)

type Config struct {
	// Share starts the live mirror and advertises it on the LAN.
	Share bool
	Port  int

	// Browse makes a viewer look for a mirror instead of using Link.
	Browse bool
	Link   string

	PicturesDir string
	CanvasSize  float64
	StrokeWidth float64

	picturesFromFlag bool
}

func Default() Config {
	return Config{
		Port:        DefaultPort,
		PicturesDir: defaultPicturesDir(),
		CanvasSize:  DefaultCanvasSize,
		StrokeWidth: DefaultStrokeWidth,
	}
}

// Viewer reports whether the app should follow a remote mirror rather than
// draw.
func (c Config) Viewer() bool { return c.Browse || c.Link != "" }

// Parse reads command line arguments (without the program name).
func Parse(args []string, errOut io.Writer) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("sketchpad", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintln(errOut, "usage: sketchpad [flags] [sketchpad://host:port]")
		fs.PrintDefaults()
	}
	fs.BoolVar(&cfg.Share, "share", cfg.Share, "share a live read-only view on the local network")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port for the live view")
	fs.BoolVar(&cfg.Browse, "browse", cfg.Browse, "find a shared sketch on the local network and follow it")
	fs.StringVar(&cfg.PicturesDir, "pictures", cfg.PicturesDir, "directory exported images are saved to")
	fs.Float64Var(&cfg.CanvasSize, "size", cfg.CanvasSize, "canvas edge length")
	fs.Float64Var(&cfg.StrokeWidth, "stroke", cfg.StrokeWidth, "initial pen width")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "pictures" {
			cfg.picturesFromFlag = true
		}
	})
	if fs.NArg() > 1 {
		return Config{}, fmt.Errorf("expected at most one share link, got %d arguments", fs.NArg())
	}
	cfg.Link = fs.Arg(0)
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.CanvasSize <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %v", c.CanvasSize))
	}
	if c.StrokeWidth <= 0 {
		errs = append(errs, fmt.Errorf("stroke width must be positive, got %v", c.StrokeWidth))
	}
	if c.Share && c.Viewer() {
		errs = append(errs, errors.New("-share cannot be combined with following another sketch"))
	}
	return errors.Join(errs...)
}

// ApplyPreferences fills in settings remembered from an earlier run. Values
// given on the command line win.
func (c *Config) ApplyPreferences(p fyne.Preferences) {
	if !c.picturesFromFlag {
		c.PicturesDir = p.StringWithFallback(prefPicturesDir, c.PicturesDir)
	}
}

// RememberPicturesDir stores dir for the next run.
func (c *Config) RememberPicturesDir(p fyne.Preferences, dir string) {
	c.PicturesDir = dir
	p.SetString(prefPicturesDir, dir)
}

func defaultPicturesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Sketchpad"
	}
	return filepath.Join(home, "Pictures", "Sketchpad")
}
