// Package schema embeds the JSON schema describing stored report payloads.
package schema

import "embed"

// ReportSchemaFS holds the canonical report payload schema.
//
//go:embed report-schema.json
var ReportSchemaFS embed.FS
