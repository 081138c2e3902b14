// Package archive bundles a report directory into a single LZ4-compressed
// tar file for transfer between environments.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// archiveFilePerm is the mode for extracted report files.
const archiveFilePerm = 0o644

// archiveDirPerm is the mode for a freshly created extraction directory.
const archiveDirPerm = 0o755

// ErrUnsafeEntry rejects archive members whose names would escape the
// extraction directory.
var ErrUnsafeEntry = errors.New("unsafe archive entry")

// Create writes every .json and .html file in srcDir into an lz4-compressed
// tar archive at dst. Subdirectories and unrelated files are skipped.
func Create(dst, srcDir string) error {
	entries, readErr := os.ReadDir(srcDir)
	if readErr != nil {
		return fmt.Errorf("read reports directory: %w", readErr)
	}

	out, createErr := os.Create(dst)
	if createErr != nil {
		return fmt.Errorf("create archive %s: %w", dst, createErr)
	}
	defer out.Close()

	lzWriter := lz4.NewWriter(out)
	tarWriter := tar.NewWriter(lzWriter)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".html" {
			continue
		}

		addErr := addFile(tarWriter, srcDir, entry.Name())
		if addErr != nil {
			return addErr
		}
	}

	closeErr := tarWriter.Close()
	if closeErr != nil {
		return fmt.Errorf("finalize tar: %w", closeErr)
	}

	flushErr := lzWriter.Close()
	if flushErr != nil {
		return fmt.Errorf("finalize lz4 stream: %w", flushErr)
	}

	return out.Close()
}

func addFile(tarWriter *tar.Writer, dir, name string) error {
	path := filepath.Join(dir, name)

	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("stat %s: %w", path, statErr)
	}

	header := &tar.Header{
		Name:    name,
		Mode:    archiveFilePerm,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	headerErr := tarWriter.WriteHeader(header)
	if headerErr != nil {
		return fmt.Errorf("write tar header for %s: %w", name, headerErr)
	}

	file, openErr := os.Open(path)
	if openErr != nil {
		return fmt.Errorf("open %s: %w", path, openErr)
	}
	defer file.Close()

	_, copyErr := io.Copy(tarWriter, file)
	if copyErr != nil {
		return fmt.Errorf("archive %s: %w", name, copyErr)
	}

	return nil
}

// Extract unpacks an archive produced by Create into dstDir, creating it
// when necessary. Entries with path separators or traversal sequences are
// rejected.
func Extract(src, dstDir string) error {
	in, openErr := os.Open(src)
	if openErr != nil {
		return fmt.Errorf("open archive %s: %w", src, openErr)
	}
	defer in.Close()

	mkdirErr := os.MkdirAll(dstDir, archiveDirPerm)
	if mkdirErr != nil {
		return fmt.Errorf("create extraction directory: %w", mkdirErr)
	}

	tarReader := tar.NewReader(lz4.NewReader(in))

	for {
		header, nextErr := tarReader.Next()
		if errors.Is(nextErr, io.EOF) {
			return nil
		}

		if nextErr != nil {
			return fmt.Errorf("read archive: %w", nextErr)
		}

		if header.Name == "" || strings.ContainsAny(header.Name, `/\`) || strings.Contains(header.Name, "..") {
			return fmt.Errorf("%w: %q", ErrUnsafeEntry, header.Name)
		}

		writeErr := writeEntry(filepath.Join(dstDir, header.Name), tarReader)
		if writeErr != nil {
			return writeErr
		}
	}
}

func writeEntry(path string, reader io.Reader) error {
	out, createErr := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, archiveFilePerm)
	if createErr != nil {
		return fmt.Errorf("create %s: %w", path, createErr)
	}

	_, copyErr := io.Copy(out, reader)
	if copyErr != nil {
		out.Close()

		return fmt.Errorf("extract %s: %w", path, copyErr)
	}

	return out.Close()
}
