package biosconfig

import (
	"time"
)

// Package represents a single native settings document.
// Vendor tools read and write exactly one file per invocation, so a bundle normally
// carries a single package named after the tool.
type Package struct {
	Name    string // Package name (e.g., "hprcu", "conrep")
	Content []byte // Document content
}

// Metadata stores information about how and when a bundle was produced.
type Metadata struct {
	Format    string            // Format identifier ("hprcu-xml", "conrep-xml")
	Backend   string            // Backend name that produced this bundle
	Generated time.Time         // Timestamp when the bundle was created
	Source    string            // Optional origin of the content (file path, "tool")
	Custom    map[string]string // Extensible metadata for backend-specific information
}

// Bundle represents a native settings document together with metadata.
type Bundle struct {
	Packages []Package // Settings documents
	Metadata Metadata  // Generation metadata
}

// NewBundle creates an empty Bundle with initialized metadata.
// The Generated timestamp is set to the current time.
func NewBundle(format, backend string) *Bundle {
	return &Bundle{
		Packages: make([]Package, 0),
		Metadata: Metadata{
			Format:    format,
			Backend:   backend,
			Generated: time.Now(),
			Custom:    make(map[string]string),
		},
	}
}

// BundleFromBytes wraps raw document content read from source.
func BundleFromBytes(format, backend, source string, content []byte) *Bundle {
	b := NewBundle(format, backend)
	b.Metadata.Source = source
	b.Packages = append(b.Packages, Package{Name: backend, Content: content})
	return b
}

// Main returns the content of the first package, or nil for an empty bundle.
func (b *Bundle) Main() []byte {
	if b == nil || len(b.Packages) == 0 {
		return nil
	}
	return b.Packages[0].Content
}
