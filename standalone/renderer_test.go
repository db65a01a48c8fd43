package standalone

import "testing"

func TestNewFramebufferRendererEffects(t *testing.T) {
	if r := NewFramebufferRenderer(nil); r.effects != nil {
		t.Error("effects manager created without shaders")
	}

	ids := []string{"crt", "scanlines"}
	r := NewFramebufferRenderer(ids)
	if r.effects == nil {
		t.Fatal("no effects manager for configured shaders")
	}
	ids[0] = "gamma"
	if r.shaderIDs[0] != "crt" {
		t.Error("renderer shares the caller's shader slice")
	}
}

func TestRGB24ToRGBA(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6}
	dst := make([]byte, 8)
	rgb24ToRGBA(dst, src)
	want := []byte{1, 2, 3, 0xFF, 4, 5, 6, 0xFF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}
