// Package firmware loads the MOS image booted by the execution side. Images
// may be raw files or sit inside a ZIP, 7z, gzip, tar.gz or RAR archive, the
// way firmware releases are usually distributed.
package firmware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extensions are the file extensions accepted as firmware images.
var Extensions = []string{".bin", ".rom"}

// MaxImageSize bounds an image. The eZ80 has a 16MB address space but MOS
// images are far smaller; anything bigger is not firmware.
const MaxImageSize = 1024 * 1024

// preferredPrefix marks the MOS image in release archives that also carry
// other binaries (flash tools, VDP images).
const preferredPrefix = "mos"

var (
	// ErrNoImage is returned when an archive contains no firmware image.
	ErrNoImage = errors.New("no firmware image found in archive")

	// ErrUnsupportedFormat is returned for files that are neither an image nor
	// a known archive.
	ErrUnsupportedFormat = errors.New("unsupported firmware format")

	// ErrImageTooLarge is returned when an image exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("firmware image exceeds maximum size")
)

// Image is a loaded firmware image.
type Image struct {
	Name string // Base name of the file or archive entry
	Data []byte
}

type format int

const (
	formatUnknown format = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatTarGzip
	formatRAR
)

var (
	magicZIP      = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip     = []byte{0x1F, 0x8B}
	magicRAR      = []byte{0x52, 0x61, 0x72, 0x21}
)

// visitFunc receives each regular archive entry. Returning stop=true ends the
// walk early.
type visitFunc func(name string, r io.Reader) (stop bool, err error)

// Load reads the firmware image at path. For archives, an entry whose name
// starts with "mos" is preferred; otherwise the first image entry is used.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open firmware: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read firmware header: %w", err)
	}

	switch detectFormat(header[:n], path) {
	case formatRaw:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek firmware: %w", err)
		}
		data, err := readImage(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read firmware: %w", err)
		}
		return &Image{Name: filepath.Base(path), Data: data}, nil

	case formatGzip:
		return loadGzip(path)

	case formatZIP:
		return pickImage(path, walkZIP)

	case formatTarGzip:
		return pickImage(path, walkTarGzip)

	case format7z:
		return pickImage(path, walk7z)

	case formatRAR:
		return pickImage(path, walkRAR)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// detectFormat checks magic bytes first, then the file extension.
func detectFormat(header []byte, path string) format {
	lower := strings.ToLower(path)
	isTar := strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz")

	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEmpty):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		if isTar {
			return formatTarGzip
		}
		return formatGzip
	}

	if isTar {
		return formatTarGzip
	}
	switch filepath.Ext(lower) {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz":
		return formatGzip
	case ".rar":
		return formatRAR
	}

	if isImageName(lower) {
		return formatRaw
	}
	return formatUnknown
}

// isImageName reports whether name has a firmware extension.
func isImageName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// isPreferred reports whether an archive entry is the MOS image itself.
func isPreferred(name string) bool {
	return strings.HasPrefix(strings.ToLower(filepath.Base(name)), preferredPrefix)
}

// pickImage walks an archive and returns the preferred image entry, or the
// first image entry when none is preferred.
func pickImage(path string, walk func(string, visitFunc) error) (*Image, error) {
	var first *Image
	var chosen *Image

	err := walk(path, func(name string, r io.Reader) (bool, error) {
		if !isImageName(name) {
			return false, nil
		}
		data, err := readImage(r)
		if err != nil {
			return true, fmt.Errorf("failed to read %s: %w", name, err)
		}
		img := &Image{Name: filepath.Base(name), Data: data}
		if isPreferred(name) {
			chosen = img
			return true, nil
		}
		if first == nil {
			first = img
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	if chosen != nil {
		return chosen, nil
	}
	if first != nil {
		return first, nil
	}
	return nil, ErrNoImage
}

// readImage reads r up to MaxImageSize bytes.
func readImage(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	return data, nil
}
