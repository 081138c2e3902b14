package server

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed assets
var viewerAssets embed.FS

// staticDirPerm is the mode for a freshly created static output directory.
const staticDirPerm = 0o755

// staticFilePerm is the mode for written viewer asset files.
const staticFilePerm = 0o644

// viewerAssetNames are the embedded files that make up the report viewer.
var viewerAssetNames = []string{"index.html", "styles.css", "main.js"}

func viewerAsset(name string) ([]byte, error) {
	data, readErr := viewerAssets.ReadFile("assets/" + name)
	if readErr != nil {
		return nil, fmt.Errorf("read embedded asset %s: %w", name, readErr)
	}

	return data, nil
}

// WriteStatic copies the embedded viewer assets into dir so the viewer can
// be hosted by any static file server.
func WriteStatic(dir string) error {
	mkdirErr := os.MkdirAll(dir, staticDirPerm)
	if mkdirErr != nil {
		return fmt.Errorf("create static output directory: %w", mkdirErr)
	}

	for _, name := range viewerAssetNames {
		data, assetErr := viewerAsset(name)
		if assetErr != nil {
			return assetErr
		}

		path := filepath.Join(dir, name)

		writeErr := os.WriteFile(path, data, staticFilePerm)
		if writeErr != nil {
			return fmt.Errorf("write %s: %w", path, writeErr)
		}
	}

	return nil
}
