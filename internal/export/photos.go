package export

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// PhotoLibrary writes exported sketches as PNG files into Dir.
type PhotoLibrary struct {
	Dir string
	Now func() time.Time
}

func NewPhotoLibrary(dir string) *PhotoLibrary {
	return &PhotoLibrary{Dir: dir, Now: time.Now}
}

// WriteImage stores img under a fresh, time-ordered file name.
func (l *PhotoLibrary) WriteImage(img image.Image) error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("create picture dir: %w", err)
	}
	path := filepath.Join(l.Dir, l.fileName())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.Printf("[EXPORT] Saved %s", path)
	return nil
}

func (l *PhotoLibrary) fileName() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return fmt.Sprintf("Sketch-%s-%s.png", now().Format("20060102-150405"), uuid.NewString()[:8])
}
