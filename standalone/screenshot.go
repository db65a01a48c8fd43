package standalone

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
)

// ScreenshotWriter saves frames as PNG files.
type ScreenshotWriter struct {
	dir   string
	scale int
	now   func() time.Time
}

// NewScreenshotWriter creates a writer saving into dir, upscaling each frame
// by an integer factor.
func NewScreenshotWriter(dir string, scale int) *ScreenshotWriter {
	if scale < 1 {
		scale = 1
	}
	return &ScreenshotWriter{dir: dir, scale: scale, now: time.Now}
}

// Save writes frame to <dir>/<unix timestamp>.png and returns the path.
func (w *ScreenshotWriter) Save(frame Frame) (string, error) {
	img, err := frameImage(frame)
	if err != nil {
		return "", err
	}
	if w.scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, frame.Width*w.scale, frame.Height*w.scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	fullPath := w.uniquePath()
	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return fullPath, nil
}

func (w *ScreenshotWriter) uniquePath() string {
	base := fmt.Sprintf("%d", w.now().Unix())
	p := filepath.Join(w.dir, base+".png")
	for i := 1; ; i++ {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
		p = filepath.Join(w.dir, fmt.Sprintf("%s-%d.png", base, i))
	}
}

// frameImage converts an RGB24 frame to an RGBA image.
func frameImage(frame Frame) (*image.RGBA, error) {
	n := frame.Width * frame.Height
	if n <= 0 || len(frame.Pixels) < n*3 {
		return nil, fmt.Errorf("invalid frame %dx%d with %d bytes", frame.Width, frame.Height, len(frame.Pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	rgb24ToRGBA(img.Pix, frame.Pixels[:n*3])
	return img, nil
}

// rgb24ToRGBA expands packed RGB into dst as opaque RGBA. dst must hold
// len(src)/3*4 bytes.
func rgb24ToRGBA(dst, src []byte) {
	for i, j := 0, 0; i+2 < len(src); i, j = i+3, j+4 {
		dst[j] = src[i]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 0xFF
	}
}
