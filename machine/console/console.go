// Package console provides a stand-in execution side that connects the host
// terminal to the peripheral module. Bytes typed on stdin are sent to the VDP
// and bytes the VDP sends back are logged.
package console

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tliron/commonlog"
	emucore "github.com/user-none/agonhost/api"
	"github.com/user-none/agonhost/link"
	"golang.org/x/term"
)

var log = commonlog.GetLogger("agonhost.console")

// statsInterval is how often the vsync rate is logged.
const statsInterval = time.Second

// Machine implements emucore.Machine.
type Machine struct {
	in io.Reader
	fd int // -1 when input is not a terminal

	mu       sync.Mutex
	oldState *term.State

	received atomic.Uint64
	sent     atomic.Uint64

	stop     chan struct{}
	stopOnce sync.Once
}

var (
	_ emucore.Machine = (*Machine)(nil)
	_ io.Closer       = (*Machine)(nil)
)

// New creates a machine reading from os.Stdin. When stdin is a terminal it is
// switched to raw mode on Start and restored by Close.
func New() *Machine {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &Machine{in: os.Stdin, fd: fd, stop: make(chan struct{})}
}

// NewWithReader creates a machine that takes its keystrokes from r.
func NewWithReader(r io.Reader) *Machine {
	return &Machine{in: r, fd: -1, stop: make(chan struct{})}
}

// Start runs until Stop is called or the inbound channel closes.
// End of input only stops the reader.
func (m *Machine) Start(cfg emucore.MachineConfig) {
	log.Infof("console machine: %d Hz, ram %s", cfg.ClockHz, cfg.RamInit)

	if cfg.StorageRoot != "" {
		if err := os.MkdirAll(cfg.StorageRoot, 0755); err != nil {
			log.Warningf("sd card root %s: %s", cfg.StorageRoot, err)
		}
	}
	if len(cfg.Firmware) > 0 {
		log.Infof("firmware image of %d bytes is not executed by the console machine", len(cfg.Firmware))
	}

	m.makeRaw()
	go m.readInput(cfg.Outbound)
	m.serve(cfg.Inbound, cfg.Vsync)
}

func (m *Machine) makeRaw() {
	if m.fd < 0 {
		return
	}
	state, err := term.MakeRaw(m.fd)
	if err != nil {
		log.Warningf("failed to set terminal raw mode: %s", err)
		return
	}
	m.mu.Lock()
	m.oldState = state
	m.mu.Unlock()
}

func (m *Machine) readInput(out *link.ByteChannel) {
	buf := make([]byte, 256)
	for {
		n, err := m.in.Read(buf)
		for _, b := range buf[:n] {
			if out.Send(b) != nil {
				return
			}
			m.sent.Add(1)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warningf("input read failed: %s", err)
			}
			log.Info("input closed")
			return
		}
	}
}

func (m *Machine) serve(in *link.ByteChannel, vsync link.VsyncReader) {
	var watcher *link.VsyncWatcher
	if vsync != nil {
		watcher = link.NewVsyncWatcher(vsync)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-m.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	bytes := make(chan byte)
	go func() {
		defer close(bytes)
		for {
			b, err := in.Recv(ctx)
			if err != nil {
				return
			}
			select {
			case bytes <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case b, ok := <-bytes:
			if !ok {
				return
			}
			m.received.Add(1)
			log.Debugf("vdp -> cpu: %02X", b)
		case <-ticker.C:
			if watcher != nil {
				log.Debugf("vsync: %d/s", watcher.Pending())
			}
		case <-ctx.Done():
			return
		}
	}
}

// Received returns the number of bytes taken from the inbound channel.
func (m *Machine) Received() uint64 { return m.received.Load() }

// Sent returns the number of input bytes sent to the outbound channel.
func (m *Machine) Sent() uint64 { return m.sent.Load() }

// Stop makes Start return.
func (m *Machine) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Close restores the terminal. It does not stop the machine.
func (m *Machine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.oldState == nil {
		return nil
	}
	err := term.Restore(m.fd, m.oldState)
	m.oldState = nil
	return err
}
