package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/bundlescope/internal/stats"
)

// storeDirPerm is the mode for a freshly created store directory.
const storeDirPerm = 0o755

// storeFilePerm is the mode for stored report files.
const storeFilePerm = 0o644

// Store persists rendered artifacts into the report directory.
//
// Writes are not atomic by default: a listing request racing a write may
// observe a zero-byte or partial file, and readers treat that as transient.
// Atomic mode (write to a temp file, then rename) closes that window at
// the cost of diverging from the documented default contract.
type Store struct {
	Dir    string
	Atomic bool
}

// Saved reports where one artifact landed.
type Saved struct {
	JSONPath string
	HTMLPath string
}

// Save writes the rendered artifact to <name>.json and, when an HTML
// source accompanied it, byte-copies that file to <name>.html. Filesystem
// failure is fatal to the pipeline run; no partial cleanup is attempted.
func (s *Store) Save(artifact *stats.Artifact, name, htmlSource string) (Saved, error) {
	mkdirErr := os.MkdirAll(s.Dir, storeDirPerm)
	if mkdirErr != nil {
		return Saved{}, fmt.Errorf("create reports directory: %w", mkdirErr)
	}

	payload, renderErr := artifact.Render()
	if renderErr != nil {
		return Saved{}, renderErr
	}

	saved := Saved{JSONPath: filepath.Join(s.Dir, name+".json")}

	writeErr := s.writeFile(saved.JSONPath, payload)
	if writeErr != nil {
		return Saved{}, fmt.Errorf("write report %s: %w", saved.JSONPath, writeErr)
	}

	if htmlSource == "" {
		return saved, nil
	}

	saved.HTMLPath = filepath.Join(s.Dir, name+".html")

	copyErr := s.copyFile(htmlSource, saved.HTMLPath)
	if copyErr != nil {
		return Saved{}, fmt.Errorf("copy HTML report to %s: %w", saved.HTMLPath, copyErr)
	}

	return saved, nil
}

func (s *Store) writeFile(path string, payload []byte) error {
	if !s.Atomic {
		return os.WriteFile(path, payload, storeFilePerm)
	}

	tmp, tmpErr := os.CreateTemp(s.Dir, filepath.Base(path)+".tmp-*")
	if tmpErr != nil {
		return tmpErr
	}

	_, writeErr := tmp.Write(payload)
	if writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return writeErr
	}

	closeErr := tmp.Close()
	if closeErr != nil {
		os.Remove(tmp.Name())

		return closeErr
	}

	return os.Rename(tmp.Name(), path)
}

func (s *Store) copyFile(src, dst string) error {
	in, openErr := os.Open(src)
	if openErr != nil {
		return openErr
	}
	defer in.Close()

	if s.Atomic {
		data, readErr := io.ReadAll(in)
		if readErr != nil {
			return readErr
		}

		return s.writeFile(dst, data)
	}

	out, createErr := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, storeFilePerm)
	if createErr != nil {
		return createErr
	}

	_, copyErr := io.Copy(out, in)
	if copyErr != nil {
		out.Close()

		return copyErr
	}

	return out.Close()
}
