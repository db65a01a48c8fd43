package firmware

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

func walkZIP(path string, visit visitFunc) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		stop, err := visitOpened(f.Name, f.Open, visit)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

func walk7z(path string, visit visitFunc) error {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		stop, err := visitOpened(f.Name, f.Open, visit)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

func walkRAR(path string, visit visitFunc) error {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read rar entry: %w", err)
		}
		if header.IsDir {
			continue
		}
		stop, err := visit(header.Name, r)
		if err != nil || stop {
			return err
		}
	}
}

func walkTarGzip(path string, visit visitFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open tar.gz: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		stop, err := visit(header.Name, tr)
		if err != nil || stop {
			return err
		}
	}
}

// loadGzip decompresses a single gzipped image. The image takes the archive
// name minus ".gz".
func loadGzip(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	data, err := readImage(gr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress gzip: %w", err)
	}

	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return &Image{Name: name, Data: data}, nil
}

// visitOpened opens an archive entry, visits it and closes it again.
func visitOpened(name string, open func() (io.ReadCloser, error), visit visitFunc) (bool, error) {
	if !isImageName(name) {
		return false, nil
	}
	rc, err := open()
	if err != nil {
		return true, fmt.Errorf("failed to open %s in archive: %w", name, err)
	}
	defer rc.Close()
	return visit(name, rc)
}
