// Package stats locates build-analysis output and normalizes it into a
// storable artifact. The build tool may emit raw JSON stats or HTML reports
// with an embedded data object; both converge on [Artifact].
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownVariant indicates an artifact with a variant Render does not know.
var ErrUnknownVariant = errors.New("unknown artifact variant")

// Variant tags the shape of an artifact payload. The stored JSON is a
// loosely-typed envelope; consumers switch on the variant instead of
// probing for optional fields.
type Variant string

const (
	// VariantPassthrough is a raw JSON stats payload, stored byte-for-byte.
	VariantPassthrough Variant = "passthrough"

	// VariantCanonical is a data object recovered from an HTML report.
	VariantCanonical Variant = "canonical"

	// VariantDegraded is a placeholder with one pseudo-asset describing the
	// HTML file itself, produced when no embedded pattern matched.
	VariantDegraded Variant = "degraded"

	// VariantFailed records an extraction that matched a pattern but could
	// not be parsed, or an HTML report that could not be read at all.
	VariantFailed Variant = "failed"
)

// degradedSourceLabel marks placeholder artifacts synthesized from an HTML
// report whose embedded data could not be located.
const degradedSourceLabel = "Next.js Bundle Analyzer (HTML Report)"

// unreadableNote is the note consumers look for to suppress the interactive
// viewer and fall back to the HTML report.
const unreadableNote = "Data extraction failed. Please view the HTML report directly."

// jsonIndent is the indentation used for every stored artifact.
const jsonIndent = "  "

// Asset is one emitted bundle file in the canonical payload shape.
type Asset struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ParsedSize int64  `json:"parsedSize"`
	GzipSize   int64  `json:"gzipSize"`
}

// Artifact is the normalized result of one extraction. Exactly one of the
// variant-specific field groups is meaningful; Render picks the stored shape.
// Artifacts are built once per pipeline run and never mutated afterwards.
type Artifact struct {
	Variant Variant

	// Raw holds the untouched payload bytes (passthrough only).
	Raw []byte

	// Data holds the parsed embedded object (canonical only).
	Data map[string]any

	// PseudoAsset describes the HTML file itself (degraded only).
	PseudoAsset Asset

	// Errors holds extraction diagnostics (failed only). The captured
	// fragment is preserved here, truncated, for debugging.
	Errors []string

	// Note explains a degraded extraction to the viewer (failed only,
	// unreadable-source case).
	Note string

	// HTMLPath is the originating HTML report, kept for traceability on
	// every non-passthrough variant.
	HTMLPath string
}

// degradedPayload is the stored shape of a placeholder artifact.
type degradedPayload struct {
	Assets   []Asset `json:"assets"`
	Source   string  `json:"source"`
	HTMLPath string  `json:"htmlPath"`
}

// failedPayload is the stored shape of a matched-but-unparsable extraction.
type failedPayload struct {
	Assets   []Asset  `json:"assets"`
	Errors   []string `json:"errors"`
	HTMLPath string   `json:"htmlPath"`
}

// notePayload is the stored shape of an unreadable HTML source.
type notePayload struct {
	Note          string `json:"note"`
	HTMLAvailable bool   `json:"htmlReportAvailable"`
	Timestamp     string `json:"timestamp"`
}

// Render serializes the artifact into the bytes the store persists.
// Passthrough payloads are returned verbatim; every other variant is
// pretty-printed JSON.
func (a *Artifact) Render() ([]byte, error) {
	switch a.Variant {
	case VariantPassthrough:
		return a.Raw, nil
	case VariantCanonical:
		return marshalIndented(a.Data)
	case VariantDegraded:
		return marshalIndented(degradedPayload{
			Assets:   []Asset{a.PseudoAsset},
			Source:   degradedSourceLabel,
			HTMLPath: a.HTMLPath,
		})
	case VariantFailed:
		if a.Note != "" {
			return marshalIndented(notePayload{
				Note:          a.Note,
				HTMLAvailable: true,
				Timestamp:     time.Now().UTC().Format(time.RFC3339),
			})
		}

		return marshalIndented(failedPayload{
			Assets:   []Asset{},
			Errors:   a.Errors,
			HTMLPath: a.HTMLPath,
		})
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, a.Variant)
}

func marshalIndented(value any) ([]byte, error) {
	data, marshalErr := json.MarshalIndent(value, "", jsonIndent)
	if marshalErr != nil {
		return nil, fmt.Errorf("marshal artifact: %w", marshalErr)
	}

	return data, nil
}

// AssetsFromPayload decodes the assets list out of a stored artifact body.
// Payloads without an assets key yield an empty slice, not an error.
func AssetsFromPayload(payload []byte) ([]Asset, error) {
	var envelope struct {
		Assets []Asset `json:"assets"`
	}

	unmarshalErr := json.Unmarshal(payload, &envelope)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decode artifact payload: %w", unmarshalErr)
	}

	return envelope.Assets, nil
}
