package vdp

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// mapResolver resolves symbols from a fixed table.
type mapResolver map[string]uintptr

func (r mapResolver) Lookup(name string) (uintptr, error) {
	addr, ok := r[name]
	if !ok {
		return 0, errors.New("undefined symbol")
	}
	return addr, nil
}

func fullTable() mapResolver {
	r := make(mapResolver, len(RequiredSymbols))
	for i, name := range RequiredSymbols {
		r[name] = uintptr(0x1000 + i*0x10)
	}
	return r
}

func TestResolveSymbols_AllPresent(t *testing.T) {
	addrs, err := resolveSymbols("vdp.so", fullTable())
	if err != nil {
		t.Fatalf("resolveSymbols failed: %v", err)
	}
	if len(addrs) != len(RequiredSymbols) {
		t.Fatalf("expected %d symbols, got %d", len(RequiredSymbols), len(addrs))
	}
	if addrs[symSetup] != 0x1000 {
		t.Errorf("expected vdp_setup at 0x1000, got %#x", addrs[symSetup])
	}
}

func TestResolveSymbols_MissingNamesSymbol(t *testing.T) {
	for _, missing := range RequiredSymbols {
		t.Run(missing, func(t *testing.T) {
			r := fullTable()
			delete(r, missing)

			_, err := resolveSymbols("vdp.so", r)
			var mse *MissingSymbolError
			if !errors.As(err, &mse) {
				t.Fatalf("expected *MissingSymbolError, got %v", err)
			}
			if mse.Symbol != missing {
				t.Errorf("expected symbol %s, got %s", missing, mse.Symbol)
			}
			if !strings.Contains(err.Error(), missing) {
				t.Errorf("error %q does not name %s", err.Error(), missing)
			}
		})
	}
}

func TestResolveSymbols_NullAddress(t *testing.T) {
	r := fullTable()
	r[symShutdown] = 0

	_, err := resolveSymbols("vdp.so", r)
	var mse *MissingSymbolError
	if !errors.As(err, &mse) || mse.Symbol != symShutdown {
		t.Fatalf("expected missing %s, got %v", symShutdown, err)
	}
}

func TestRequiredSymbolsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range RequiredSymbols {
		if seen[name] {
			t.Fatalf("duplicate symbol %s", name)
		}
		seen[name] = true
	}
	if len(seen) != 13 {
		t.Fatalf("expected 13 entry points, got %d", len(seen))
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("custom/vdp.so"); got != filepath.Join(".", "custom/vdp.so") {
		t.Errorf("relative override: got %s", got)
	}

	abs := filepath.Join(t.TempDir(), "vdp.so")
	if got := ResolvePath(abs); got != abs {
		t.Errorf("absolute override: got %s, want %s", got, abs)
	}

	def := ResolvePath("")
	if filepath.Base(def) != DefaultModuleName+LibraryExt() {
		t.Errorf("default path %s does not end in %s", def, DefaultModuleName+LibraryExt())
	}
	if filepath.Base(filepath.Dir(def)) != "vdp" {
		t.Errorf("default path %s is not in a vdp directory", def)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope"+LibraryExt())
	if _, err := Load(path); err == nil {
		t.Fatal("expected error loading a missing module")
	}
}
