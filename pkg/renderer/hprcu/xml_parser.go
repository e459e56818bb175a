package hprcu

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	ast "github.com/honeybbq/biosconfig/pkg/ast/hprcu"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
)

// maxDocumentSize bounds how much of a settings dump is read.
const maxDocumentSize = 16 * 1024 * 1024

// XMLParser decodes hprcu XML documents.
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
		return nil, bcerrors.New(bcerrors.KindParse, errors.New("bundle has no hprcu document"))
	}
	doc, err := Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	if !opts.SkipValidation {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Decode reads a single hprcu document from r. The decoder is strict and does not
// expand custom entities.
func Decode(r io.Reader) (*ast.Document, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxDocumentSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)

	var doc ast.Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, bcerrors.New(bcerrors.KindParse, fmt.Errorf("decode hprcu document: %w", err))
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return &doc, nil
}

// expectEOF rejects trailing elements after the root.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return bcerrors.New(bcerrors.KindParse, fmt.Errorf("decode hprcu document: %w", err))
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return bcerrors.New(bcerrors.KindParse, fmt.Errorf("decode hprcu document: unexpected element <%s> after root", t.Name.Local))
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return bcerrors.New(bcerrors.KindParse, errors.New("decode hprcu document: unexpected text after root"))
			}
		}
	}
}
