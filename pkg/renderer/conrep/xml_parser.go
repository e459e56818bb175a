package conrep

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	ast "github.com/honeybbq/biosconfig/pkg/ast/conrep"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
)

const maxDocumentSize = 16 * 1024 * 1024

// XMLParser decodes conrep data files.
type XMLParser struct{}

func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

// Parse implements renderer.Parser.
func (p *XMLParser) Parse(ctx context.Context, bundle *biosconfig.Bundle, opts biosconfig.ParseOptions) (*ast.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content := bundle.Main()
	if content == nil {
		return nil, bcerrors.New(bcerrors.KindParse, errors.New("bundle has no conrep document"))
	}
	return Decode(bytes.NewReader(content))
}

// Decode reads a conrep document from r.
func Decode(r io.Reader) (*ast.Document, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxDocumentSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)

	var doc ast.Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, bcerrors.New(bcerrors.KindParse, fmt.Errorf("decode conrep document: %w", err))
	}
	return &doc, nil
}
