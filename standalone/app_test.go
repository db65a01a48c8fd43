package standalone

import (
	"errors"
	"testing"
)

func TestAppUpdateReturnsWorkerFailure(t *testing.T) {
	want := errors.New("byte relay: channel closed")
	f := newFixture(t)
	app := newApp(f.p, nil, func() error { return want })

	if err := app.Update(); err != want {
		t.Fatalf("Update = %v, want %v", err, want)
	}
	if len(f.surface.calls) != 0 || f.p.State() != StateSurfaceInit {
		t.Errorf("presenter stepped after failure: %v", f.surface.calls)
	}
}
