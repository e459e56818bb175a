package hprcu

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	ast "github.com/honeybbq/biosconfig/pkg/ast/hprcu"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
)

// Format is the bundle format identifier for hprcu documents.
const Format = "hprcu-xml"

// XMLRenderer serializes an hprcu document as indented XML.
type XMLRenderer struct {
	indent string
}

func NewXMLRenderer() *XMLRenderer {
	return &XMLRenderer{indent: "  "}
}

// Render implements renderer.Renderer.
func (r *XMLRenderer) Render(ctx context.Context, doc *ast.Document, opts biosconfig.RenderOptions) (*biosconfig.Bundle, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, bcerrors.New(bcerrors.KindRender, fmt.Errorf("hprcu document is nil"))
	}
	if !opts.SkipValidation {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
	}

	content, err := Marshal(doc, r.indent)
	if err != nil {
		return nil, err
	}

	bundle := biosconfig.NewBundle(Format, "hprcu")
	bundle.Packages = append(bundle.Packages, biosconfig.Package{
		Name:    "hprcu",
		Content: content,
	})
	return bundle, nil
}

// Marshal renders doc with an XML declaration and a trailing newline.
func Marshal(doc *ast.Document, indent string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", indent)
	if err := enc.Encode(doc); err != nil {
		return nil, bcerrors.New(bcerrors.KindRender, fmt.Errorf("encode hprcu document: %w", err))
	}
	if err := enc.Close(); err != nil {
		return nil, bcerrors.New(bcerrors.KindRender, fmt.Errorf("encode hprcu document: %w", err))
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
