package standalone

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/tliron/commonlog"
	emucore "github.com/user-none/agonhost/api"
)

var audioLog = commonlog.GetLogger("agonhost.audio")

// SampleSource produces unsigned 8-bit mono samples on demand.
type SampleSource interface {
	CopyAudioSamples(buf []byte)
}

// sampleReader adapts a SampleSource to the io.Reader oto pulls from. It is
// only read from oto's audio goroutine.
type sampleReader struct {
	src SampleSource
}

func (r *sampleReader) Read(p []byte) (int, error) {
	r.src.CopyAudioSamples(p)
	return len(p), nil
}

// AudioPlayer plays the module's audio output via oto.
type AudioPlayer struct {
	player *oto.Player
}

// oto context singleton
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto audio context on first use.
func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   emucore.AudioSampleRate,
			ChannelCount: 1,
			Format:       oto.FormatUnsignedInt8,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// NewAudioPlayer starts pulling samples from src. The volume is set before
// playback starts so a muted start does not pop.
func NewAudioPlayer(src SampleSource, volume float64) (*AudioPlayer, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	player := ctx.NewPlayer(&sampleReader{src: src})
	// ~50ms at 16384 Hz mono 8-bit
	player.SetBufferSize(emucore.AudioSampleRate / 20)
	player.SetVolume(clampVolume(volume))
	player.Play()

	audioLog.Infof("audio started: %d Hz mono u8", emucore.AudioSampleRate)
	return &AudioPlayer{player: player}, nil
}

// SetVolume sets the playback volume (0.0 = silent, 1.0 = normal, 2.0 = max).
func (a *AudioPlayer) SetVolume(vol float64) {
	a.player.SetVolume(clampVolume(vol))
}

// Close stops playback.
func (a *AudioPlayer) Close() {
	if a.player != nil {
		a.player.Close()
	}
}

func clampVolume(vol float64) float64 {
	if vol < 0 {
		return 0
	} else if vol > 2.0 {
		return 2.0
	}
	return vol
}
