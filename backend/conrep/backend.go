package conrep

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/honeybbq/biosconfig/domain/conrep"
	"github.com/honeybbq/biosconfig/domain/utils"
	ast "github.com/honeybbq/biosconfig/pkg/ast/conrep"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
	"github.com/honeybbq/biosconfig/pkg/renderer"
	conreprenderer "github.com/honeybbq/biosconfig/pkg/renderer/conrep"
)

// Backend converts between conrep data files and name -> value settings.
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
	return "conrep"
}

// ToNative plans a data file holding only the sections that change. A raw
// SettingsXML data file takes precedence over desired.
func (b *Backend) ToNative(ctx context.Context, current *biosconfig.Bundle, desired *structpb.Struct, opts biosconfig.RenderOptions) (*biosconfig.Plan, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	old, err := b.parser.Parse(ctx, current, biosconfig.ParseOptions{})
	if err != nil {
		return nil, err
	}
	oldValues := old.Values()

	var cfg *domain.Config
	if len(opts.SettingsXML) > 0 {
		raw := biosconfig.BundleFromBytes(conreprenderer.Format, b.Name(), "settings_xml", opts.SettingsXML)
		doc, err := b.parser.Parse(ctx, raw, biosconfig.ParseOptions{})
		if err != nil {
			return nil, err
		}
		cfg = &domain.Config{Settings: doc.Values()}
	} else {
		if cfg, err = domain.FromProto(desired); err != nil {
			return nil, err
		}
	}

	if err := cfg.Check(oldValues); err != nil {
		return nil, err
	}
	changed := cfg.Changed(oldValues)
	before, after := domain.DiffLines(oldValues, changed)

	doc := &ast.Document{Sections: conreprenderer.SectionsFromSettings(utils.SortedKeys(changed), changed)}
	bundle, err := b.renderer.Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	return &biosconfig.Plan{
		Bundle:  bundle,
		Changed: len(changed) > 0,
		Diff:    biosconfig.Diff{Before: before, After: after},
		Facts:   utils.StructFromSettings(domain.Merge(oldValues, changed)),
	}, nil
}

// ToFacts implements biosconfig.Backend.
func (b *Backend) ToFacts(ctx context.Context, bundle *biosconfig.Bundle, opts biosconfig.ParseOptions) (*structpb.Struct, error) {
	doc, err := b.parser.Parse(ctx, bundle, opts)
	if err != nil {
		return nil, err
	}
	return utils.StructFromSettings(doc.Values()), nil
}
