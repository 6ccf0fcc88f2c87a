package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"Sketchpad/internal/config"
	"Sketchpad/internal/ui"

	"fyne.io/fyne/v2/app"
)

const appID = "io.sketchpad.app"

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	a := app.NewWithID(appID)
	cfg.ApplyPreferences(a.Preferences())

	if cfg.Viewer() {
		log.Println("Starting as VIEWER")
		ui.NewViewer(a, cfg).Run()
		return
	}
	log.Println("Starting as HOST")
	ui.NewStudio(a, cfg).Run()
}
