package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"Sketchpad/internal/config"
	"Sketchpad/internal/export"
	sharenet "Sketchpad/internal/net"
	"Sketchpad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/hashicorp/mdns"
)

const (
	appTitle        = "Sketchpad"
	discoverTimeout = 3 * time.Second
)

// Studio is one sketching window and the state behind it.
type Studio struct {
	cfg    config.Config
	app    fyne.App
	window fyne.Window

	transform state.TransformState
	interp    *state.Interpreter
	session   *state.Session
	bridge    state.HistoryBridge
	pictures  *export.PhotoLibrary

	sketch     *SketchWidget
	picker     *fyne.Container
	background *widget.Select
	status     *widget.Label

	mirror *sharenet.Mirror
	mdns   *mdns.Server
}

// NewStudio builds a drawing window on a. Nothing is shown until Run.
func NewStudio(a fyne.App, cfg config.Config) *Studio {
	st := &Studio{
		cfg:       cfg,
		app:       a,
		transform: state.IdentityTransform(),
		pictures:  export.NewPhotoLibrary(cfg.PicturesDir),
		status:    widget.NewLabel("Ready"),
	}
	frame := state.Rect{Max: state.Point{X: cfg.CanvasSize, Y: cfg.CanvasSize}}
	st.session = state.NewSession(frame, export.Rasterizer{}, st.pictures)
	st.bridge = state.HistoryBridge{History: st.session.History(), Canvas: st.session}
	st.interp = state.NewInterpreter(&st.transform, st.bridge)

	st.sketch = NewSketchWidget(st.session, st.interp, cfg.StrokeWidth)
	st.picker = newToolPicker(st.sketch, cfg.StrokeWidth)
	st.background = newBackgroundSelect(st.session)
	st.session.OnChange = st.sync

	st.window = a.NewWindow(appTitle)
	st.window.Resize(fyne.NewSize(float32(cfg.CanvasSize)+300, float32(cfg.CanvasSize)+180))
	st.window.SetContent(container.NewBorder(
		st.newActionBar(),
		container.NewVBox(st.picker, st.status),
		nil, nil,
		st.sketch,
	))
	st.addShortcuts()
	st.window.SetOnClosed(st.shutdown)
	return st
}

// Run shows the window and blocks until the app quits.
func (st *Studio) Run() {
	if st.cfg.Share {
		if err := st.startSharing(); err != nil {
			log.Printf("[MIRROR] Sharing disabled: %v", err)
			st.SetStatus("Sharing failed: " + err.Error())
		}
	}
	st.window.ShowAndRun()
}

func (st *Studio) addShortcuts() {
	c := st.window.Canvas()
	tap := func(fingers int) func(fyne.Shortcut) {
		return func(fyne.Shortcut) { st.interp.Handle(state.TapEvent(fingers)) }
	}
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, tap(2))
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, tap(3))
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, tap(3))
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyBackspace, Modifier: fyne.KeyModifierShortcutDefault}, tap(4))
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.Key0, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		st.sketch.ResetView()
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		st.exportImage()
	})
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			st.sketch.CancelGestures()
		}
	})
}

// sync pushes session state into the widgets after any change.
func (st *Studio) sync() {
	st.sketch.Refresh()
	if st.session.ToolPickerVisible() {
		st.picker.Show()
	} else {
		st.picker.Hide()
	}
	if label := st.session.Background().Label(); st.background.Selected != label {
		st.background.SetSelected(label)
	}
}

// SetStatus is safe to call from any goroutine.
func (st *Studio) SetStatus(text string) {
	fyne.Do(func() { st.status.SetText(text) })
}

func (st *Studio) exportImage() {
	if st.session.Drawing().IsEmpty() {
		st.status.SetText("Nothing to save")
		return
	}
	st.session.ExportCurrent()
	st.status.SetText("Saved to " + st.pictures.Dir)
}

func (st *Studio) choosePicturesDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			log.Printf("[UI] Folder dialog failed: %v", err)
			return
		}
		if uri == nil {
			return
		}
		st.cfg.RememberPicturesDir(st.app.Preferences(), uri.Path())
		st.pictures.Dir = uri.Path()
		st.status.SetText("Saving pictures to " + uri.Path())
	}, st.window)
}

func (st *Studio) showGestureHelp() {
	dialog.ShowInformation("Gestures",
		"Draw with the primary button.\n"+
			"Pan: scroll, or drag with the secondary button.\n"+
			"Zoom: Ctrl + scroll.  Rotate: Alt + scroll.\n"+
			"Undo: Ctrl+Z (two finger tap)\n"+
			"Redo: Ctrl+Shift+Z (three finger tap)\n"+
			"Clear: Ctrl+Backspace (four finger tap)\n"+
			"Esc cancels a gesture, Ctrl+0 resets the view.",
		st.window)
}

func (st *Studio) startSharing() error {
	st.mirror = sharenet.NewMirror()
	if _, err := st.mirror.Start(fmt.Sprintf(":%d", st.cfg.Port)); err != nil {
		st.mirror = nil
		return err
	}
	st.session.Subscribe(st.mirror.Publish)

	server, err := sharenet.Advertise(st.cfg.Port)
	if err != nil {
		// direct links still work without discovery
		log.Printf("[MIRROR] mDNS advertise failed: %v", err)
	}
	st.mdns = server

	link := sharenet.ShareLink(sharenet.OutgoingIP(), st.cfg.Port)
	log.Printf("[MIRROR] Share link: %s", link)
	st.status.SetText("Sharing at " + link)
	return nil
}

func (st *Studio) shutdown() {
	if st.mdns != nil {
		st.mdns.Shutdown()
		st.mdns = nil
	}
	if st.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := st.mirror.Close(ctx); err != nil {
			log.Printf("[MIRROR] Close: %v", err)
		}
		st.mirror = nil
	}
}

// Viewer is a read-only window following a shared sketch.
type Viewer struct {
	cfg     config.Config
	window  fyne.Window
	session *state.Session
	sketch  *SketchWidget
	status  *widget.Label

	transform state.TransformState
	cancel    context.CancelFunc
}

func NewViewer(a fyne.App, cfg config.Config) *Viewer {
	v := &Viewer{
		cfg:       cfg,
		transform: state.IdentityTransform(),
		status:    widget.NewLabel("Looking for a shared sketch..."),
	}
	frame := state.Rect{Max: state.Point{X: cfg.CanvasSize, Y: cfg.CanvasSize}}
	v.session = state.NewSession(frame, nil, nil)
	interp := state.NewInterpreter(&v.transform, nil)
	v.sketch = NewSketchWidget(v.session, interp, cfg.StrokeWidth)
	v.sketch.SetReadOnly(true)
	v.session.OnChange = v.sketch.Refresh

	v.window = a.NewWindow(appTitle + " (viewer)")
	v.window.Resize(fyne.NewSize(float32(cfg.CanvasSize)+100, float32(cfg.CanvasSize)+100))
	v.window.SetContent(container.NewBorder(nil, v.status, nil, nil, v.sketch))
	v.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			v.sketch.CancelGestures()
		}
	})
	return v
}

// Show applies a received snapshot. It must run on the UI goroutine.
func (v *Viewer) Show(msg sharenet.Message) {
	v.session.SetBackground(msg.BackgroundMode())
	v.session.Replace(msg.Drawing())
}

func (v *Viewer) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.window.SetOnClosed(cancel)
	go v.follow(ctx)
	v.window.ShowAndRun()
}

func (v *Viewer) follow(ctx context.Context) {
	setStatus := func(text string) { fyne.Do(func() { v.status.SetText(text) }) }

	addr, err := v.address()
	if err != nil {
		setStatus(err.Error())
		return
	}
	conn, err := sharenet.Dial(ctx, addr)
	if err != nil {
		setStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer conn.Close()
	setStatus("Following " + addr)

	err = conn.Run(ctx, func(msg sharenet.Message) {
		fyne.Do(func() { v.Show(msg) })
	})
	if ctx.Err() == nil {
		setStatus(fmt.Sprintf("Disconnected: %v", err))
	}
}

func (v *Viewer) address() (string, error) {
	if v.cfg.Link != "" {
		return sharenet.ParseLink(v.cfg.Link)
	}
	return sharenet.Discover(discoverTimeout)
}
