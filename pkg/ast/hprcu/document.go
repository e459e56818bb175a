// Package hprcu models the XML settings document read and written by HPE's hprcu
// utility.
package hprcu

import (
	"encoding/xml"
	"strconv"
)

// FeatureType tags how a feature stores its value.
type FeatureType string

const (
	// FeatureTypeOption is an enumerated choice among declared options.
	FeatureTypeOption FeatureType = "option"
	// FeatureTypeString is a free text value.
	FeatureTypeString FeatureType = "string"
)

// Document is the root <hprcu> element.
type Document struct {
	XMLName     xml.Name     `xml:"hprcu"`
	Attrs       []xml.Attr   `xml:",any,attr"`
	Information *Information `xml:"information,omitempty"`
	Features    []*Feature   `xml:"feature"`
	Extra       []RawElement `xml:",any"`
}

// Information holds free text identification of the system.
type Information struct {
	ProductName     string `xml:"product_name"`
	SystemROMFamily string `xml:"system_rom_family"`
	SystemROMDate   string `xml:"system_rom_date"`
}

// Feature is one configurable setting.
type Feature struct {
	ID                 int         `xml:"feature_id,attr"`
	SelectedOptionID   *int        `xml:"selected_option_id,attr"`
	DefaultOptionID    *int        `xml:"default_option_id,attr"`
	SysDefaultOptionID *int        `xml:"sys_default_option_id,attr"`
	Type               FeatureType `xml:"feature_type,attr"`
	Attrs              []xml.Attr  `xml:",any,attr"`
	Name               string      `xml:"feature_name"`
	Value              *string     `xml:"feature_value"`
	Options            []Option    `xml:"option"`
	// Extra keeps child elements this model does not know about, such as the
	// payload of feature types other than option and string.
	Extra []RawElement `xml:",any"`
}

// Option is one selectable value of an option feature.
type Option struct {
	ID   int    `xml:"option_id,attr"`
	Name string `xml:"option_name"`
}

// RawElement keeps elements this model does not know about.
type RawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// Feature returns the feature with the given id, or nil.
func (d *Document) Feature(id int) *Feature {
	if d == nil {
		return nil
	}
	for _, f := range d.Features {
		if f != nil && f.ID == id {
			return f
		}
	}
	return nil
}

// FeatureByName returns the first feature labelled name, or nil.
func (d *Document) FeatureByName(name string) *Feature {
	if d == nil {
		return nil
	}
	for _, f := range d.Features {
		if f != nil && f.Name == name {
			return f
		}
	}
	return nil
}

// Option returns the option with the given id, or nil.
func (f *Feature) Option(id int) *Option {
	for i := range f.Options {
		if f.Options[i].ID == id {
			return &f.Options[i]
		}
	}
	return nil
}

// OptionByName returns the first option labelled name, or nil.
func (f *Feature) OptionByName(name string) *Option {
	for i := range f.Options {
		if f.Options[i].Name == name {
			return &f.Options[i]
		}
	}
	return nil
}

// DefaultOption returns the default option id, preferring default_option_id over the
// sys_default_option_id variant.
func (f *Feature) DefaultOption() (int, bool) {
	switch {
	case f.DefaultOptionID != nil:
		return *f.DefaultOptionID, true
	case f.SysDefaultOptionID != nil:
		return *f.SysDefaultOptionID, true
	}
	return 0, false
}

// CurrentValue returns the selected option id (as decimal text) for option features
// and the feature value for string features.
func (f *Feature) CurrentValue() (string, bool) {
	switch f.Type {
	case FeatureTypeOption:
		if f.SelectedOptionID == nil {
			return "", false
		}
		return strconv.Itoa(*f.SelectedOptionID), true
	case FeatureTypeString:
		if f.Value == nil {
			return "", false
		}
		return *f.Value, true
	}
	return "", false
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
