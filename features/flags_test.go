package features_test

import (
	"testing"

	"github.com/jmcelroy/docent/features"
)

func TestFromEnvDefaults(t *testing.T) {
	f := features.FromEnv()
	if !f.ExportTraceHeaders {
		t.Error("export trace headers should default on")
	}
	if f.EnhancedManifest {
		t.Error("enhanced manifest should default off")
	}
	if !f.EPUBExport {
		t.Error("EPUB export should default on")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FEATURE_EXPORT_TRACE_HEADERS", "off")
	t.Setenv("FEATURE_ENHANCED_MANIFEST", "1")
	t.Setenv("FEATURE_EPUB_EXPORT", "FALSE")

	f := features.FromEnv()
	if f.ExportTraceHeaders {
		t.Error("export trace headers should be off")
	}
	if !f.EnhancedManifest {
		t.Error("enhanced manifest should be on")
	}
	if f.EPUBExport {
		t.Error("EPUB export should be off")
	}
}

func TestFromEnvUnrecognizedValueKeepsDefault(t *testing.T) {
	t.Setenv("FEATURE_ENHANCED_MANIFEST", "maybe")

	f := features.FromEnv()
	if f.EnhancedManifest {
		t.Error("unrecognized value should fall back to the default (off)")
	}
}
