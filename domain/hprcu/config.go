package hprcu

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/honeybbq/biosconfig/domain/utils"
	ast "github.com/honeybbq/biosconfig/pkg/ast/hprcu"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

// Config is the desired hprcu state keyed by feature name (the feature_name text of
// a settings dump). Option features take the option name, string features the
// literal value.
type Config struct {
	Settings map[string]string
}

// FromProto builds the model from a settings Struct.
func FromProto(msg *structpb.Struct) (*Config, error) {
	settings, err := utils.SettingsFromStruct(msg)
	if err != nil {
		return nil, err
	}
	return &Config{Settings: settings}, nil
}

// Apply writes the desired settings into doc and reports whether any value changed.
// Every setting must name a feature of doc; option values must name a declared
// option.
func (c *Config) Apply(doc *ast.Document) (bool, error) {
	if doc == nil {
		return false, bcerrors.New(bcerrors.KindValidation, fmt.Errorf("document is nil"))
	}
	changed := false
	seen := make(map[string]struct{}, len(c.Settings))
	for _, f := range doc.Features {
		if f == nil {
			continue
		}
		want, ok := c.Settings[f.Name]
		if !ok {
			continue
		}
		seen[f.Name] = struct{}{}

		switch f.Type {
		case ast.FeatureTypeOption:
			opt := f.OptionByName(want)
			if opt == nil {
				return false, bcerrors.Newf(bcerrors.KindUnknownSetting,
					"selected value %q for option %q unknown by hprcu (known: %s)", want, f.Name, optionNames(f))
			}
			if f.SelectedOptionID == nil || *f.SelectedOptionID != opt.ID {
				changed = true
			}
			f.SelectedOptionID = ast.IntPtr(opt.ID)
		case ast.FeatureTypeString:
			if f.Value == nil || *f.Value != want {
				changed = true
			}
			f.Value = ast.StringPtr(want)
		default:
			return false, bcerrors.Newf(bcerrors.KindUnsupported,
				"unknown feature type %q of feature %q", f.Type, f.Name)
		}
	}

	if len(seen) != len(c.Settings) {
		var unknown []string
		for _, name := range utils.SortedKeys(c.Settings) {
			if _, ok := seen[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		return false, bcerrors.Newf(bcerrors.KindUnknownSetting,
			"some features are unknown to this hprcu: %s", strings.Join(unknown, ", "))
	}
	return changed, nil
}

func optionNames(f *ast.Feature) string {
	names := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		names = append(names, o.Name)
	}
	return strings.Join(names, ", ")
}

// Values maps feature_id to the selected option id (option features) or value
// (string features). Features of other types are left out.
func Values(doc *ast.Document) map[int]string {
	out := make(map[int]string)
	if doc == nil {
		return out
	}
	for _, f := range doc.Features {
		if f == nil {
			continue
		}
		if v, ok := f.CurrentValue(); ok {
			out[f.ID] = v
		}
	}
	return out
}

// YieldsChanges reports whether applying desired on top of current changes any
// value. A feature id in desired that current does not know is an error.
func YieldsChanges(current, desired *ast.Document) (bool, error) {
	before := Values(current)
	after := Values(desired)
	for _, id := range sortedIDs(after) {
		old, ok := before[id]
		if !ok {
			return false, bcerrors.Newf(bcerrors.KindUnknownSetting, "feature %d not known by this hprcu", id)
		}
		if old != after[id] {
			return true, nil
		}
	}
	return false, nil
}

// Facts maps feature names to the selected option name or the string value.
func Facts(doc *ast.Document) map[string]string {
	out := make(map[string]string)
	if doc == nil {
		return out
	}
	for _, f := range doc.Features {
		if f == nil {
			continue
		}
		switch f.Type {
		case ast.FeatureTypeOption:
			if f.SelectedOptionID == nil {
				continue
			}
			if opt := f.Option(*f.SelectedOptionID); opt != nil {
				out[f.Name] = opt.Name
			}
		case ast.FeatureTypeString:
			if f.Value != nil {
				out[f.Name] = *f.Value
			}
		}
	}
	return out
}

// Clone returns a deep copy of doc.
func Clone(doc *ast.Document) *ast.Document {
	if doc == nil {
		return nil
	}
	out := &ast.Document{
		XMLName: doc.XMLName,
		Attrs:   append([]xml.Attr(nil), doc.Attrs...),
		Extra:   append([]ast.RawElement(nil), doc.Extra...),
	}
	if doc.Information != nil {
		info := *doc.Information
		out.Information = &info
	}
	for _, f := range doc.Features {
		if f == nil {
			out.Features = append(out.Features, nil)
			continue
		}
		cp := *f
		cp.SelectedOptionID = cloneInt(f.SelectedOptionID)
		cp.DefaultOptionID = cloneInt(f.DefaultOptionID)
		cp.SysDefaultOptionID = cloneInt(f.SysDefaultOptionID)
		if f.Value != nil {
			cp.Value = ast.StringPtr(*f.Value)
		}
		cp.Attrs = append([]xml.Attr(nil), f.Attrs...)
		cp.Options = append([]ast.Option(nil), f.Options...)
		cp.Extra = append([]ast.RawElement(nil), f.Extra...)
		out.Features = append(out.Features, &cp)
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	return ast.IntPtr(*v)
}

func sortedIDs(m map[int]string) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
