package biosconfig

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
)

// Backend defines the conversion interface every vendor tool format implements.
// A backend never runs the vendor tool itself; it converts between the tool's native
// settings document and name -> value settings carried as structpb.Struct.
type Backend interface {
	// Name returns the backend identifier (e.g., "hprcu", "conrep").
	Name() string

	// ToNative plans the native document that applies desired on top of the
	// current dump. The returned plan reports whether anything would change.
	ToNative(ctx context.Context, current *Bundle, desired *structpb.Struct, opts RenderOptions) (*Plan, error)

	// ToFacts parses a native dump into human readable name -> value facts.
	ToFacts(ctx context.Context, bundle *Bundle, opts ParseOptions) (*structpb.Struct, error)
}

// Plan is the outcome of ToNative.
type Plan struct {
	Bundle  *Bundle          // Native document to hand to the tool's load mode
	Changed bool             // Whether Bundle differs from the current settings
	Diff    Diff             // Human readable before/after view
	Facts   *structpb.Struct // Facts as they will be once Bundle is applied
}

// Diff holds a before/after text rendition of a change.
type Diff struct {
	Before string
	After  string
}
