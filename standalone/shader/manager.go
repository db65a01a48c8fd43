package shader

import (
	"embed"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("agonhost.shader")

//go:embed shaders/*.kage
var sources embed.FS

func source(id string) ([]byte, error) {
	return sources.ReadFile("shaders/" + id + ".kage")
}

// Manager compiles effects on first use and applies them to frames. It is
// used only from ebiten's draw goroutine.
type Manager struct {
	shaders map[string]*ebiten.Shader

	// Ping-pong buffers for chaining passes
	bufferA *ebiten.Image
	bufferB *ebiten.Image

	// Persists across frames for phosphor ghosting
	ghostingBuffer *ebiten.Image

	xbrScaler *XBRScaler

	// Compiled chain for the last ID list seen
	chainIDs []string
	chain    []*ebiten.Shader
}

// NewManager creates a manager with nothing compiled.
func NewManager() *Manager {
	return &Manager{
		shaders:   make(map[string]*ebiten.Shader),
		xbrScaler: NewXBRScaler(),
	}
}

// ResetBuffers drops every per-size buffer. Called on a display mode change
// so ghosting does not blend frames of different modes.
func (m *Manager) ResetBuffers() {
	for _, img := range []**ebiten.Image{&m.ghostingBuffer, &m.bufferA, &m.bufferB} {
		if *img != nil {
			(*img).Deallocate()
			*img = nil
		}
	}
}

// LoadShader compiles and caches a Kage pass by ID.
func (m *Manager) LoadShader(id string) error {
	if _, ok := m.shaders[id]; ok {
		return nil
	}
	if !Known(id) || IsPreprocess(id) {
		return fmt.Errorf("unknown shader: %s", id)
	}

	src, err := source(id)
	if err != nil {
		return fmt.Errorf("missing shader source %s: %w", id, err)
	}
	s, err := ebiten.NewShader(src)
	if err != nil {
		return fmt.Errorf("failed to compile shader %s: %w", id, err)
	}
	m.shaders[id] = s
	return nil
}

// ensureImage returns img if it already has the given size, otherwise a new
// image of that size.
func ensureImage(img *ebiten.Image, width, height int) *ebiten.Image {
	if img != nil {
		if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
			return img
		}
		img.Deallocate()
	}
	return ebiten.NewImage(width, height)
}

func (m *Manager) ensureBuffers(width, height int) {
	m.bufferA = ensureImage(m.bufferA, width, height)
	m.bufferB = ensureImage(m.bufferB, width, height)
}

// rebuildChain compiles the Kage passes of ids in application order.
// Passes that fail to compile are logged and left out.
func (m *Manager) rebuildChain(ids []string) {
	m.chainIDs = append(m.chainIDs[:0], ids...)
	m.chain = m.chain[:0]
	for _, id := range chainOrder(ids) {
		if err := m.LoadShader(id); err != nil {
			log.Warningf("shader %s not available: %s", id, err)
			continue
		}
		m.chain = append(m.chain, m.shaders[id])
	}
}

func (m *Manager) chainMatches(ids []string) bool {
	if m.chainIDs == nil || len(ids) != len(m.chainIDs) {
		return false
	}
	for i, id := range ids {
		if m.chainIDs[i] != id {
			return false
		}
	}
	return true
}

// applyGhosting blends src into the persistent ghosting buffer
// (buffer = buffer*0.6 + src*0.4) and returns the blend.
func (m *Manager) applyGhosting(src *ebiten.Image) *ebiten.Image {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	m.ghostingBuffer = ensureImage(m.ghostingBuffer, w, h)
	m.ensureBuffers(w, h)

	m.bufferA.Clear()
	decay := &ebiten.DrawImageOptions{}
	decay.ColorScale.Scale(0.6, 0.6, 0.6, 1.0)
	m.bufferA.DrawImage(m.ghostingBuffer, decay)

	add := &ebiten.DrawImageOptions{}
	add.ColorScale.Scale(0.4, 0.4, 0.4, 1.0)
	add.Blend = ebiten.BlendLighter
	m.bufferA.DrawImage(src, add)

	m.ghostingBuffer.Clear()
	m.ghostingBuffer.DrawImage(m.bufferA, nil)
	return m.bufferA
}

// ApplyPreprocessEffects runs xBR and ghosting. With xBR enabled src is the
// native frame and is scaled to the screen; otherwise src must already be
// screen-sized. Returns a screen-sized image.
func (m *Manager) ApplyPreprocessEffects(src *ebiten.Image, ids []string, screenW, screenH int) *ebiten.Image {
	if src == nil {
		return nil
	}
	out := src
	if HasXBR(ids) {
		out = m.xbrScaler.Apply(src, screenW, screenH)
	}
	if hasGhosting(ids) {
		out = m.applyGhosting(out)
	}
	return out
}

// ApplyShaders draws src onto dst through the Kage passes in ids.
// sourceHeight is the row count of the active video mode, used by the
// scanline pass. Returns false when src was drawn unchanged.
func (m *Manager) ApplyShaders(dst, src *ebiten.Image, ids []string, sourceHeight int) bool {
	if src == nil {
		return false
	}
	if !m.chainMatches(ids) {
		m.rebuildChain(ids)
	}
	if len(m.chain) == 0 {
		dst.DrawImage(src, nil)
		return false
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	uniforms := map[string]any{
		"SourceHeight": float32(sourceHeight),
	}

	if len(m.chain) > 1 {
		m.ensureBuffers(w, h)
	}
	buffers := [2]*ebiten.Image{m.bufferA, m.bufferB}
	input := src
	for i, s := range m.chain {
		op := &ebiten.DrawRectShaderOptions{}
		op.Images[0] = input
		op.Uniforms = uniforms

		if i == len(m.chain)-1 {
			dst.DrawRectShader(w, h, s, op)
			break
		}
		// The ghosting blend lives in bufferA; start the ping-pong on B.
		out := buffers[(i+1)%2]
		out.Clear()
		out.DrawRectShader(w, h, s, op)
		input = out
	}
	return true
}
