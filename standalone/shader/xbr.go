package shader

import (
	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/user-none/agonhost/api"
)

// XBRScaler upscales a native frame with cascaded 2x xBR passes (2x, 4x or
// 8x) and fits the result into the screen at the monitor's aspect ratio.
// Buffers are reused while the frame and screen sizes stay the same.
type XBRScaler struct {
	shader    *ebiten.Shader
	shaderErr error

	normalizedSrc *ebiten.Image
	passBuffers   [3]*ebiten.Image // Max 3 passes for 8x
	screenBuffer  *ebiten.Image
}

// NewXBRScaler creates a scaler; the shader is compiled on first use.
func NewXBRScaler() *XBRScaler {
	return &XBRScaler{}
}

// Apply scales src and returns a screen-sized image. If the shader does not
// compile the frame is scaled with nearest filtering instead.
func (x *XBRScaler) Apply(src *ebiten.Image, screenW, screenH int) *ebiten.Image {
	if src == nil {
		return nil
	}
	srcW, srcH := src.Bounds().Dx(), src.Bounds().Dy()
	x.ensureBufferPool(srcW, srcH, screenW, screenH)

	if err := x.ensureShader(); err != nil {
		drawFitted(x.screenBuffer, src)
		return x.screenBuffer
	}

	// Sub-images keep their atlas offset, which breaks the srcPos
	// interpolation of DrawTrianglesShader; start from a plain image.
	x.normalizedSrc.DrawImage(src, nil)

	passes := scaleFactorToPasses(selectOptimalScale(srcW, srcH, screenW, screenH))
	input := x.normalizedSrc
	for pass := 0; pass < passes; pass++ {
		x.runShaderPass(input, x.passBuffers[pass])
		input = x.passBuffers[pass]
	}

	drawFitted(x.screenBuffer, input)
	return x.screenBuffer
}

// ensureBufferPool (re)creates buffers whose size changed and clears the rest.
func (x *XBRScaler) ensureBufferPool(srcW, srcH, screenW, screenH int) {
	if x.normalizedSrc == nil || x.normalizedSrc.Bounds().Dx() != srcW || x.normalizedSrc.Bounds().Dy() != srcH {
		if x.normalizedSrc != nil {
			x.normalizedSrc.Deallocate()
		}
		x.normalizedSrc = ebiten.NewImage(srcW, srcH)
		w, h := srcW, srcH
		for i := range x.passBuffers {
			if x.passBuffers[i] != nil {
				x.passBuffers[i].Deallocate()
			}
			w, h = w*2, h*2
			x.passBuffers[i] = ebiten.NewImage(w, h)
		}
	} else {
		x.normalizedSrc.Clear()
		for _, b := range x.passBuffers {
			b.Clear()
		}
	}

	x.screenBuffer = ensureImage(x.screenBuffer, screenW, screenH)
	x.screenBuffer.Clear()
}

func (x *XBRScaler) ensureShader() error {
	if x.shader != nil || x.shaderErr != nil {
		return x.shaderErr
	}
	src, err := source("xbr")
	if err == nil {
		x.shader, err = ebiten.NewShader(src)
	}
	if err != nil {
		log.Warningf("xBR unavailable, using nearest scaling: %s", err)
		x.shaderErr = err
	}
	return err
}

// selectOptimalScale picks the smallest of 2, 4 or 8 that covers the
// aspect-preserving scale needed to fill the screen.
func selectOptimalScale(srcW, srcH, screenW, screenH int) int {
	scaleX := float64(screenW) / float64(srcW)
	scaleY := float64(screenH) / float64(srcH)
	scaleToFit := min(scaleX, scaleY)

	switch {
	case scaleToFit <= 2.0:
		return 2
	case scaleToFit <= 4.0:
		return 4
	}
	return 8
}

// scaleFactorToPasses converts scale factor to number of 2x passes
func scaleFactorToPasses(factor int) int {
	switch factor {
	case 4:
		return 2
	case 8:
		return 3
	default:
		return 1
	}
}

// runShaderPass executes one 2x xBR pass from input to output
func (x *XBRScaler) runShaderPass(input, output *ebiten.Image) {
	inW, inH := float32(input.Bounds().Dx()), float32(input.Bounds().Dy())
	outW, outH := float32(output.Bounds().Dx()), float32(output.Bounds().Dy())

	vertices := []ebiten.Vertex{
		{DstX: 0, DstY: 0, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: outW, DstY: 0, SrcX: inW, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: 0, DstY: outH, SrcX: 0, SrcY: inH, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: outW, DstY: outH, SrcX: inW, SrcY: inH, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2, 1, 3, 2}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = input
	output.DrawTrianglesShader(vertices, indices, x.shader, op)
}

// FitRect returns the size and offset of the largest box with the monitor's
// aspect ratio that fits in a screenW x screenH area, centered.
func FitRect(screenW, screenH float64) (w, h, offX, offY float64) {
	w, h = screenW, screenW/emucore.DisplayAspectRatio
	if h > screenH {
		w, h = screenH*emucore.DisplayAspectRatio, screenH
	}
	return w, h, (screenW - w) / 2, (screenH - h) / 2
}

// drawFitted scales src onto dst with FitRect and nearest filtering.
func drawFitted(dst, src *ebiten.Image) {
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	w, h, offX, offY := FitRect(float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy()))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/sw, h/sh)
	op.GeoM.Translate(offX, offY)
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(src, op)
}
