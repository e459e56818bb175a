// Package conrep models the XML data file read and written by HPE's conrep utility.
package conrep

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Document is the root <Conrep> element.
type Document struct {
	XMLName  xml.Name   `xml:"Conrep"`
	Attrs    []xml.Attr `xml:",any,attr"`
	Sections []*Section `xml:"Section"`
}

// Section holds a single named setting.
type Section struct {
	Name  string     `xml:"name,attr"`
	Attrs []xml.Attr `xml:",any,attr"`
	Text  string     `xml:",chardata"`
	Inner string     `xml:",innerxml"`
}

// Value returns the setting value: the serialized child markup when the section has
// child elements, its text otherwise.
func (s *Section) Value() string {
	if strings.Contains(s.Inner, "<") {
		return strings.TrimSpace(s.Inner)
	}
	return s.Text
}

// Values returns the name -> value map of all named sections. Later sections win.
func (d *Document) Values() map[string]string {
	out := make(map[string]string)
	if d == nil {
		return out
	}
	for _, s := range d.Sections {
		if s == nil {
			continue
		}
		out[s.Name] = s.Value()
	}
	return out
}

// IsMarkup reports whether v is a well-formed XML fragment carrying markup, such
// as the child elements of a structured section. Anything else is plain text and
// must be escaped when written.
func IsMarkup(v string) bool {
	if !strings.Contains(v, "<") {
		return false
	}
	dec := xml.NewDecoder(strings.NewReader("<v>" + v + "</v>"))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	depth, closed := 0, false
	for {
		tok, err := dec.Token()
		if err != nil {
			return errors.Is(err, io.EOF) && closed
		}
		if closed {
			// v closed the wrapper early
			return false
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
			closed = depth == 0
		}
	}
}
