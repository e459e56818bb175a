package hprcu

import (
	"errors"
	"fmt"

	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

// Validate checks the structural invariants of a settings document: unique feature
// ids, option references that resolve to declared options, and a feature type that
// matches the populated payload. Features of other types are carried opaquely and
// only need an id and a type. All violations are reported together.
func (d *Document) Validate() error {
	if d == nil {
		return bcerrors.New(bcerrors.KindValidation, errors.New("document is nil"))
	}
	var errs []error
	seen := make(map[int]struct{}, len(d.Features))
	for i, f := range d.Features {
		if f == nil {
			errs = append(errs, fmt.Errorf("feature #%d is empty", i))
			continue
		}
		if _, dup := seen[f.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate feature_id %d", f.ID))
		}
		seen[f.ID] = struct{}{}
		errs = append(errs, f.validate()...)
	}
	if len(errs) > 0 {
		return bcerrors.New(bcerrors.KindValidation, errors.Join(errs...))
	}
	return nil
}

func (f *Feature) validate() []error {
	var errs []error
	switch f.Type {
	case FeatureTypeOption:
		if f.Value != nil {
			errs = append(errs, fmt.Errorf("feature %d: option feature carries a feature_value", f.ID))
		}
		if len(f.Options) == 0 {
			errs = append(errs, fmt.Errorf("feature %d: option feature declares no options", f.ID))
		}
		optionIDs := make(map[int]struct{}, len(f.Options))
		for _, o := range f.Options {
			if _, dup := optionIDs[o.ID]; dup {
				errs = append(errs, fmt.Errorf("feature %d: duplicate option_id %d", f.ID, o.ID))
			}
			optionIDs[o.ID] = struct{}{}
		}
		refs := []struct {
			attr string
			id   *int
		}{
			{"selected_option_id", f.SelectedOptionID},
			{"default_option_id", f.DefaultOptionID},
			{"sys_default_option_id", f.SysDefaultOptionID},
		}
		for _, ref := range refs {
			if ref.id == nil {
				continue
			}
			if _, ok := optionIDs[*ref.id]; !ok {
				errs = append(errs, fmt.Errorf("feature %d: %s %d does not match a declared option", f.ID, ref.attr, *ref.id))
			}
		}
		if f.SelectedOptionID == nil {
			errs = append(errs, fmt.Errorf("feature %d: option feature has no selected_option_id", f.ID))
		}
	case FeatureTypeString:
		if len(f.Options) > 0 {
			errs = append(errs, fmt.Errorf("feature %d: string feature declares options", f.ID))
		}
		if f.Value == nil {
			errs = append(errs, fmt.Errorf("feature %d: string feature has no feature_value", f.ID))
		}
	case "":
		errs = append(errs, fmt.Errorf("feature %d: missing feature_type", f.ID))
	}
	return errs
}
