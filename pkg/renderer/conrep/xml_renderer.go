package conrep

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	ast "github.com/honeybbq/biosconfig/pkg/ast/conrep"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
)

// Format is the bundle format identifier for conrep data files.
const Format = "conrep-xml"

// XMLRenderer writes conrep data files one section per line. Structured values
// (child elements) pass through untouched, plain text is escaped.
type XMLRenderer struct{}

func NewXMLRenderer() *XMLRenderer {
	return &XMLRenderer{}
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
		return nil, bcerrors.New(bcerrors.KindRender, fmt.Errorf("conrep document is nil"))
	}

	var buf bytes.Buffer
	buf.WriteString("<Conrep>\n")
	for _, s := range doc.Sections {
		if s == nil {
			continue
		}
		if s.Name == "" {
			return nil, bcerrors.New(bcerrors.KindRender, fmt.Errorf("conrep section without name"))
		}
		buf.WriteString(`<Section name="`)
		if err := xml.EscapeText(&buf, []byte(s.Name)); err != nil {
			return nil, bcerrors.New(bcerrors.KindRender, err)
		}
		buf.WriteString(`">`)
		if err := writeValue(&buf, s.Value()); err != nil {
			return nil, bcerrors.New(bcerrors.KindRender, err)
		}
		buf.WriteString("</Section>\n")
	}
	buf.WriteString("</Conrep>\n")

	bundle := biosconfig.NewBundle(Format, "conrep")
	bundle.Packages = append(bundle.Packages, biosconfig.Package{
		Name:    "conrep",
		Content: buf.Bytes(),
	})
	return bundle, nil
}

// writeValue emits markup values verbatim and escapes plain text.
func writeValue(buf *bytes.Buffer, value string) error {
	if ast.IsMarkup(value) {
		buf.WriteString(value)
		return nil
	}
	return xml.EscapeText(buf, []byte(value))
}

// SectionsFromSettings builds sections in the given key order. Values that are
// well-formed markup become child elements, everything else is text.
func SectionsFromSettings(keys []string, settings map[string]string) []*ast.Section {
	out := make([]*ast.Section, 0, len(keys))
	for _, k := range keys {
		v := settings[k]
		s := &ast.Section{Name: k, Text: v}
		if ast.IsMarkup(v) {
			s.Inner = v
		}
		out = append(out, s)
	}
	return out
}
