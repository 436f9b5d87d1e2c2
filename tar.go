package spyprot

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractBundle unpacks a gzipped tar stream into dir and returns the names
// of the extracted files. Member names with path separators or parent
// references are rejected, so a hostile archive cannot write outside dir.
func extractBundle(dir string, r io.Reader) ([]string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading bundle archive: %w", err)
	}
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("reading bundle archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := hdr.Name
		if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return nil, fmt.Errorf("bundle member has unsafe name %q", name)
		}
		if err := writeMember(filepath.Join(dir, name), tr); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func writeMember(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("extracting %s: %w", path, err)
	}
	return f.Close()
}
