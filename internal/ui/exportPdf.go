package ui

import (
	"image/color"
	"io"
	"log"

	"Sketchpad/internal/export"
	"Sketchpad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// pdfWriter adapts a dialog's writer to the session's vector sink.
type pdfWriter struct {
	w io.Writer
}

func (p pdfWriter) WriteDrawing(d state.Drawing, bg color.Color) error {
	return export.WritePDF(p.w, d, bg)
}

func (st *Studio) exportPDF() {
	if st.session.Drawing().IsEmpty() {
		st.status.SetText("Nothing to export")
		return
	}
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			log.Printf("exportPDF: dialog error: %v", err)
			return
		}
		if writer == nil {
			return
		}
		st.savePDF(writer)
	}, st.window)
	save.SetFileName("sketch.pdf")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	save.Show()
}

func (st *Studio) savePDF(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("savePDF: Error closing writer: %v", err)
		}
	}()

	if err := st.session.ExportVector(pdfWriter{w: writer}); err != nil {
		log.Printf("savePDF: Error writing %s: %v", writer.URI(), err)
		st.status.SetText("Error exporting PDF")
		return
	}
	log.Printf("savePDF: Wrote %s", writer.URI())
	st.status.SetText("Exported " + writer.URI().Name())
}
