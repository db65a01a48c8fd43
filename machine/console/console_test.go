package console

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	emucore "github.com/user-none/agonhost/api"
	"github.com/user-none/agonhost/link"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func newConfig(t *testing.T) emucore.MachineConfig {
	return emucore.MachineConfig{
		Outbound:    link.NewByteChannel(),
		Inbound:     link.NewByteChannel(),
		Vsync:       &link.VsyncCounter{},
		ClockHz:     18432000,
		StorageRoot: filepath.Join(t.TempDir(), "sdcard"),
	}
}

func start(m *Machine, cfg emucore.MachineConfig) chan struct{} {
	done := make(chan struct{})
	go func() {
		m.Start(cfg)
		close(done)
	}()
	return done
}

func TestInputIsSentInOrder(t *testing.T) {
	cfg := newConfig(t)
	m := NewWithReader(strings.NewReader("RUN\r"))
	done := start(m, cfg)
	defer func() {
		m.Stop()
		<-done
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var got []byte
	for len(got) < 4 {
		b, err := cfg.Outbound.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv: %v (got %q)", err, got)
		}
		got = append(got, b)
	}
	if string(got) != "RUN\r" {
		t.Errorf("outbound = %q, want %q", got, "RUN\r")
	}
	if m.Sent() != 4 {
		t.Errorf("Sent() = %d, want 4", m.Sent())
	}
}

func TestEndOfInputKeepsRunning(t *testing.T) {
	cfg := newConfig(t)
	m := NewWithReader(strings.NewReader(""))
	done := start(m, cfg)

	cfg.Inbound.Send(0x1E)
	cfg.Inbound.Send(0x00)
	waitFor(t, "inbound bytes", func() bool { return m.Received() == 2 })

	select {
	case <-done:
		t.Fatal("Start returned after end of input")
	case <-time.After(20 * time.Millisecond):
	}

	m.Stop()
	<-done
}

func TestInboundCloseEndsStart(t *testing.T) {
	cfg := newConfig(t)
	m := NewWithReader(strings.NewReader(""))
	done := start(m, cfg)

	cfg.Inbound.Send(0x41)
	cfg.Inbound.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after inbound close")
	}
	if m.Received() != 1 {
		t.Errorf("Received() = %d, want 1", m.Received())
	}
}

func TestStartCreatesStorageRoot(t *testing.T) {
	cfg := newConfig(t)
	m := NewWithReader(strings.NewReader(""))
	done := start(m, cfg)
	defer func() {
		m.Stop()
		<-done
	}()

	waitFor(t, "storage root", func() bool {
		info, err := os.Stat(cfg.StorageRoot)
		return err == nil && info.IsDir()
	})
}

func TestCloseWithoutTerminal(t *testing.T) {
	m := NewWithReader(strings.NewReader(""))
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	m.Stop()
	m.Stop()
}
