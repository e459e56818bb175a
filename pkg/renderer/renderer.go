package renderer

import (
	"context"

	"github.com/honeybbq/biosconfig/pkg/biosconfig"
)

// Renderer serializes a settings document of type T into a native bundle.
type Renderer[T any] interface {
	Render(ctx context.Context, doc T, opts biosconfig.RenderOptions) (*biosconfig.Bundle, error)
}

// Parser decodes a native bundle into a settings document of type T.
type Parser[T any] interface {
	Parse(ctx context.Context, bundle *biosconfig.Bundle, opts biosconfig.ParseOptions) (T, error)
}
