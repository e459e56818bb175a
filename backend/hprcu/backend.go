package hprcu

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/honeybbq/biosconfig/domain/hprcu"
	"github.com/honeybbq/biosconfig/domain/utils"
	ast "github.com/honeybbq/biosconfig/pkg/ast/hprcu"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
	"github.com/honeybbq/biosconfig/pkg/renderer"
	hprcurenderer "github.com/honeybbq/biosconfig/pkg/renderer/hprcu"
)

// Backend converts between hprcu settings dumps and name -> value settings.
type Backend struct {
	renderer renderer.Renderer[*ast.Document]
	parser   renderer.Parser[*ast.Document]
}

// New builds a Backend.
func New(r renderer.Renderer[*ast.Document], p renderer.Parser[*ast.Document]) *Backend {
	return &Backend{renderer: r, parser: p}
}

// Name implements biosconfig.Backend.
func (b *Backend) Name() string {
	return "hprcu"
}

// ToNative plans the document to load. A raw SettingsXML document takes
// precedence over desired; it is loaded as is and only compared against current.
func (b *Backend) ToNative(ctx context.Context, current *biosconfig.Bundle, desired *structpb.Struct, opts biosconfig.RenderOptions) (*biosconfig.Plan, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	old, err := b.parser.Parse(ctx, current, biosconfig.ParseOptions{SkipValidation: opts.SkipValidation})
	if err != nil {
		return nil, err
	}

	doc := old
	changed := false
	switch {
	case len(opts.SettingsXML) > 0:
		raw := biosconfig.BundleFromBytes(hprcurenderer.Format, b.Name(), "settings_xml", opts.SettingsXML)
		doc, err = b.parser.Parse(ctx, raw, biosconfig.ParseOptions{SkipValidation: opts.SkipValidation})
		if err != nil {
			return nil, err
		}
		if changed, err = domain.YieldsChanges(old, doc); err != nil {
			return nil, err
		}
	case len(desired.GetFields()) > 0:
		cfg, err := domain.FromProto(desired)
		if err != nil {
			return nil, err
		}
		doc = domain.Clone(old)
		if changed, err = cfg.Apply(doc); err != nil {
			return nil, err
		}
	}

	before, err := b.renderer.Render(ctx, old, biosconfig.RenderOptions{SkipValidation: true})
	if err != nil {
		return nil, err
	}
	after, err := b.renderer.Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	return &biosconfig.Plan{
		Bundle:  after,
		Changed: changed,
		Diff: biosconfig.Diff{
			Before: string(before.Main()),
			After:  string(after.Main()),
		},
		Facts: utils.StructFromSettings(domain.Facts(doc)),
	}, nil
}

// ToFacts implements biosconfig.Backend.
func (b *Backend) ToFacts(ctx context.Context, bundle *biosconfig.Bundle, opts biosconfig.ParseOptions) (*structpb.Struct, error) {
	doc, err := b.parser.Parse(ctx, bundle, opts)
	if err != nil {
		return nil, err
	}
	return utils.StructFromSettings(domain.Facts(doc)), nil
}
