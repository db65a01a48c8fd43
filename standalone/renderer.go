package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/user-none/agonhost/api"
	"github.com/user-none/agonhost/standalone/shader"
)

// FramebufferRenderer owns the ebiten render target. It implements Surface
// for the presenter and draws the target onto the window at the machine's
// 4:3 display aspect ratio, through the configured display effects.
type FramebufferRenderer struct {
	target     *ebiten.Image
	rgba       []byte
	width      int
	height     int
	fullscreen bool
	ready      bool
	drawOpts   ebiten.DrawImageOptions

	shaderIDs    []string
	effects      *shader.Manager
	effectBuffer *ebiten.Image // screen-sized input to the effect chain
}

// NewFramebufferRenderer creates a renderer with no render target yet.
// shaderIDs selects the display effects; empty draws the frame directly.
func NewFramebufferRenderer(shaderIDs []string) *FramebufferRenderer {
	r := &FramebufferRenderer{
		rgba: make([]byte, emucore.MaxScreenWidth*emucore.MaxScreenHeight*4),
	}
	if len(shaderIDs) > 0 {
		r.shaderIDs = append([]string(nil), shaderIDs...)
		r.effects = shader.NewManager()
	}
	return r
}

// Rebuild applies the fullscreen flag and allocates the render target.
func (r *FramebufferRenderer) Rebuild(fullscreen bool, width, height int) error {
	if fullscreen != r.fullscreen || fullscreen != ebiten.IsFullscreen() {
		ebiten.SetFullscreen(fullscreen)
		r.fullscreen = fullscreen
	}
	r.Resize(width, height)
	return nil
}

// Resize reallocates the render target for a new mode.
func (r *FramebufferRenderer) Resize(width, height int) {
	if r.target != nil {
		r.target.Deallocate()
	}
	r.target = ebiten.NewImage(width, height)
	r.width, r.height = width, height
	r.ready = false
	if r.effects != nil {
		r.effects.ResetBuffers()
	}
}

// Blit uploads an RGB24 frame into the render target.
func (r *FramebufferRenderer) Blit(pixels []byte, width, height int) {
	if r.target == nil || width != r.width || height != r.height {
		return
	}
	n := width * height * 4
	rgb24ToRGBA(r.rgba[:n], pixels)
	r.target.WritePixels(r.rgba[:n])
}

// Present marks the render target as holding a complete frame.
func (r *FramebufferRenderer) Present() {
	r.ready = true
}

// Draw scales the render target onto screen. Without effects it is a
// nearest-filtered aspect fit. With effects the frame goes through xBR and
// ghosting, then the Kage chain.
func (r *FramebufferRenderer) Draw(screen *ebiten.Image) {
	if r.target == nil || !r.ready {
		return
	}
	if r.effects == nil {
		r.drawFitted(screen)
		return
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	input := r.target
	if !shader.HasXBR(r.shaderIDs) {
		r.effectBuffer = r.screenBuffer(sw, sh)
		r.effectBuffer.Clear()
		r.drawFitted(r.effectBuffer)
		input = r.effectBuffer
	}
	processed := r.effects.ApplyPreprocessEffects(input, r.shaderIDs, sw, sh)
	r.effects.ApplyShaders(screen, processed, r.shaderIDs, r.height)
}

func (r *FramebufferRenderer) screenBuffer(width, height int) *ebiten.Image {
	if b := r.effectBuffer; b != nil {
		if b.Bounds().Dx() == width && b.Bounds().Dy() == height {
			return b
		}
		b.Deallocate()
	}
	return ebiten.NewImage(width, height)
}

func (r *FramebufferRenderer) drawFitted(dst *ebiten.Image) {
	dstW, dstH := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	boxW, boxH, offX, offY := shader.FitRect(dstW, dstH)

	r.drawOpts = ebiten.DrawImageOptions{}
	r.drawOpts.GeoM.Scale(boxW/float64(r.width), boxH/float64(r.height))
	r.drawOpts.GeoM.Translate(offX, offY)
	r.drawOpts.Filter = ebiten.FilterNearest
	dst.DrawImage(r.target, &r.drawOpts)
}
