package ui

import (
	"image/color"

	"Sketchpad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// penColors are offered in the tool picker, first is the default.
var penColors = []color.Color{
	color.Black,
	color.White,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 180, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 204, A: 255},
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))
	rect.CornerRadius = 4

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	border.CornerRadius = 4

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// newToolPicker builds the pen palette: colours and stroke width.
func newToolPicker(sketch *SketchWidget, width float64) *fyne.Container {
	swatches := container.NewHBox()
	for _, c := range penColors {
		swatches.Add(newColorSwatch(c, sketch.SetColor))
	}

	strokeSlider := widget.NewSlider(1.0, 40.0)
	strokeSlider.SetValue(width)
	strokeSlider.OnChanged = sketch.SetStroke
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	return container.NewHBox(
		widget.NewLabel("Pen:"),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
	)
}

// newBackgroundSelect lets the user pick the canvas background.
func newBackgroundSelect(session *state.Session) *widget.Select {
	labels := make([]string, len(state.BackgroundModes))
	for i, m := range state.BackgroundModes {
		labels[i] = m.Label()
	}
	sel := widget.NewSelect(labels, func(label string) {
		if m, err := state.ParseBackgroundMode(label); err == nil {
			session.SetBackground(m)
		}
	})
	sel.SetSelected(session.Background().Label())
	return sel
}

// newActionBar is the top row: history, restore, view and export actions.
func (st *Studio) newActionBar() fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DeleteIcon(), func() { st.bridge.Tap(4) }),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { st.bridge.Tap(2) }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { st.bridge.Tap(3) }),
		widget.NewToolbarAction(theme.HistoryIcon(), st.session.RestoreSaved),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomFitIcon(), st.sketch.ResetView),
		widget.NewToolbarAction(theme.VisibilityOffIcon(), st.session.ToggleToolPicker),
		widget.NewToolbarAction(theme.InfoIcon(), st.showGestureHelp),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), st.exportImage),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), st.exportPDF),
		widget.NewToolbarAction(theme.FolderOpenIcon(), st.choosePicturesDir),
	)
	return container.NewBorder(nil, nil, nil,
		container.NewHBox(widget.NewIcon(theme.ColorPaletteIcon()), st.background),
		tb)
}
