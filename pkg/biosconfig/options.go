package biosconfig

import "time"

// RenderOptions controls planning of a native document (settings -> native).
type RenderOptions struct {
	SettingsXML    []byte        // Raw native document; takes precedence over the settings map
	SkipValidation bool          // Skip document invariant checks if true
	Timeout        time.Duration // Maximum time allowed for planning
}

// ParseOptions controls parsing of a native dump (native -> facts).
type ParseOptions struct {
	SkipValidation bool // Skip document invariant checks if true
}
