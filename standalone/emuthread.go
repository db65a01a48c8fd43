package standalone

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/tliron/commonlog"
	emucore "github.com/user-none/agonhost/api"
	"github.com/user-none/agonhost/link"
)

var relayLog = commonlog.GetLogger("agonhost.relay")

// Fabric holds the objects shared between the worker threads: the two byte
// channels and the vsync counter. It outlives every worker.
type Fabric struct {
	Outbound *link.ByteChannel // machine -> peripheral
	Inbound  *link.ByteChannel // peripheral -> machine
	Vsync    *link.VsyncCounter

	execDone chan struct{}

	mu  sync.Mutex
	err error
}

// NewFabric creates open channels and a zeroed vsync counter.
func NewFabric() *Fabric {
	return &Fabric{
		Outbound: link.NewByteChannel(),
		Inbound:  link.NewByteChannel(),
		Vsync:    &link.VsyncCounter{},
		execDone: make(chan struct{}),
	}
}

// ExecDone is closed once the machine's Start has returned.
func (f *Fabric) ExecDone() <-chan struct{} {
	return f.execDone
}

// Fail records a worker failure. Only the first error is kept.
func (f *Fabric) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
	}
}

// Err returns the first failure reported by a worker, or nil.
func (f *Fabric) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Workers describes the three background threads of the host.
type Workers struct {
	Machine    emucore.Machine
	Peripheral emucore.Peripheral
	Config     emucore.MachineConfig

	// Fatal is called from the relay when a channel it uses has closed.
	// Defaults to fab.Fail, leaving the main loop to pick the error up
	// through fab.Err and shut down.
	Fatal func(error)
}

// StartWorkers spawns the execution, relay and peripheral goroutines and
// returns immediately. The channels and counter in cfg are taken from fab.
// Nothing stops the workers; they run until the process exits.
func StartWorkers(fab *Fabric, w Workers) {
	cfg := w.Config
	cfg.Outbound = fab.Outbound
	cfg.Inbound = fab.Inbound
	cfg.Vsync = fab.Vsync

	fatal := w.Fatal
	if fatal == nil {
		fatal = fab.Fail
	}

	// Execution thread. When the machine returns its side of both
	// channels is gone.
	go func() {
		defer close(fab.execDone)
		w.Machine.Start(cfg)
		log.Notice("CPU thread finished")
		fab.Outbound.Close()
		fab.Inbound.Close()
	}()

	// Relay thread
	go func() {
		relay := link.NewRelay(fab.Outbound, fab.Inbound, w.Peripheral)
		relayLog.Debugf("relay started, interval %s", relay.Interval)
		if err := relay.Run(context.Background()); err != nil {
			relayLog.Criticalf("relay stopped: %s", err)
			fatal(fmt.Errorf("byte relay: %w", err))
		}
	}()

	// Peripheral thread. The module's loop is foreign code that expects to
	// own its thread.
	go func() {
		runtime.LockOSThread()
		w.Peripheral.Setup()
		w.Peripheral.RunLoop()
		log.Warning("VDP loop returned")
	}()
}
