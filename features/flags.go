// Package features exposes runtime feature toggles read from the
// environment at startup. Toggles gate optional response surface, never
// core behavior, so flipping one cannot change what a package contains.
package features

import (
	"log"
	"os"
	"strings"
)

// Flags holds the resolved toggle set for one process.
type Flags struct {
	// ExportTraceHeaders adds X-Course-Hash and X-Export-Warnings headers
	// to successful export responses.
	ExportTraceHeaders bool

	// EnhancedManifest switches exports to the media-dependency manifest
	// layout instead of the flat single-resource one.
	EnhancedManifest bool

	// EPUBExport enables the EPUB handout endpoint.
	EPUBExport bool
}

// FromEnv reads FEATURE_* variables and logs every toggle that deviates
// from its default, so a process's surface is reconstructable from logs.
func FromEnv() *Flags {
	f := &Flags{
		ExportTraceHeaders: envBool("FEATURE_EXPORT_TRACE_HEADERS", true),
		EnhancedManifest:   envBool("FEATURE_ENHANCED_MANIFEST", false),
		EPUBExport:         envBool("FEATURE_EPUB_EXPORT", true),
	}
	log.Printf("INFO (Features): export_trace_headers=%t enhanced_manifest=%t epub_export=%t",
		f.ExportTraceHeaders, f.EnhancedManifest, f.EPUBExport)
	return f
}

func envBool(name string, def bool) bool {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		log.Printf("WARN (Features): unrecognized value %q for %s, using default %t", raw, name, def)
		return def
	}
}
