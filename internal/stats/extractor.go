package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// fragmentPreviewLimit caps how much of a captured-but-unparsable fragment
// is preserved in the error detail.
const fragmentPreviewLimit = 256

// Extractor normalizes a located stats file into an [Artifact]. Extraction
// never aborts the pipeline: HTML sources degrade to placeholder or error
// artifacts instead of failing.
type Extractor struct {
	Matchers []Matcher
	Logger   *slog.Logger
}

// NewExtractor returns an extractor with the default matcher cascade.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{
		Matchers: DefaultMatchers(),
		Logger:   logger,
	}
}

// Extract produces the artifact for the located file. Only an unreadable
// JSON source is an error; that payload is the pipeline's entire input and
// there is nothing to degrade to.
func (e *Extractor) Extract(path string, kind Kind) (*Artifact, error) {
	if kind == KindHTML {
		return e.extractHTML(path), nil
	}

	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("read stats file %s: %w", path, readErr)
	}

	return &Artifact{Variant: VariantPassthrough, Raw: raw}, nil
}

func (e *Extractor) extractHTML(path string) *Artifact {
	e.logger().Info("extracting stats data from HTML report", "path", path)

	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		e.logger().Warn("could not read HTML report, will still copy it", "error", readErr)

		return &Artifact{Variant: VariantFailed, Note: unreadableNote, HTMLPath: path}
	}

	fragment, matcherName, ok := firstMatch(e.Matchers, string(raw))
	if !ok {
		e.logger().Info("no embedded data pattern matched, creating placeholder")

		return &Artifact{
			Variant: VariantDegraded,
			PseudoAsset: Asset{
				Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
				Size: int64(len(raw)),
			},
			HTMLPath: path,
		}
	}

	e.logger().Info("found embedded data", "pattern", matcherName)

	var data map[string]any

	parseErr := json.Unmarshal([]byte(sanitizeFragment(fragment)), &data)
	if parseErr != nil {
		e.logger().Warn("error parsing extracted stats data", "error", parseErr)

		return &Artifact{
			Variant: VariantFailed,
			Errors: []string{
				"Error parsing stats data from HTML report",
				fmt.Sprintf("pattern %s: %v", matcherName, parseErr),
				"fragment: " + previewFragment(fragment),
			},
			HTMLPath: path,
		}
	}

	return &Artifact{Variant: VariantCanonical, Data: data, HTMLPath: path}
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func previewFragment(fragment string) string {
	if len(fragment) <= fragmentPreviewLimit {
		return fragment
	}

	return fragment[:fragmentPreviewLimit] + "..."
}
