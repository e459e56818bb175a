// Package driver reads the current BIOS settings through a vendor tool, plans the
// change with a backend and writes the result back.
package driver

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	bclog "github.com/honeybbq/biosconfig/internal/log"
	"github.com/honeybbq/biosconfig/domain/utils"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
	"github.com/honeybbq/biosconfig/pkg/sync"
	"github.com/honeybbq/biosconfig/pkg/tool"
)

// Request describes one apply run.
type Request struct {
	// Settings maps setting names to desired values.
	Settings *structpb.Struct
	// SettingsXML is a complete native document; it takes precedence over Settings.
	SettingsXML []byte
	// Check plans the change without writing it.
	Check bool
	// Diff, Facts and Debug select the optional parts of the Result.
	Diff  bool
	Facts bool
	Debug bool
}

// Result reports what an apply run did, or would do in check mode.
type Result struct {
	Changed bool
	Diff    *biosconfig.Diff
	// Changes lists the settings that differ, set along with Diff.
	Changes *sync.DiffResult
	Facts   *structpb.Struct
	Debug   string
}

// Driver glues a Backend to the Tool it converts for.
type Driver struct {
	Backend biosconfig.Backend
	Tool    tool.Tool
	// Format tags the bundles read from the tool.
	Format string
	// TempDir holds the scratch settings files; empty means os.TempDir.
	TempDir string
}

// New builds a Driver.
func New(backend biosconfig.Backend, t tool.Tool, format string) *Driver {
	return &Driver{Backend: backend, Tool: t, Format: format}
}

// Facts returns the current settings as name -> value.
func (d *Driver) Facts(ctx context.Context) (*structpb.Struct, error) {
	current, err := d.read(ctx)
	if err != nil {
		return nil, err
	}
	return d.Backend.ToFacts(ctx, current, biosconfig.ParseOptions{})
}

// Apply reads the current settings, plans the requested ones and writes them back
// when something changes. Nothing is written in check mode.
func (d *Driver) Apply(ctx context.Context, req Request) (*Result, error) {
	logger := bclog.FromContext(ctx).With().Str("component", "driver").Str("backend", d.Backend.Name()).Logger()

	current, err := d.read(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := d.Backend.ToNative(ctx, current, req.Settings, biosconfig.RenderOptions{SettingsXML: req.SettingsXML})
	if err != nil {
		return nil, fmt.Errorf("plan %s settings: %w", d.Backend.Name(), err)
	}

	result := &Result{Changed: plan.Changed}
	if req.Diff {
		diff := plan.Diff
		result.Diff = &diff
		changes, err := d.changes(ctx, current, plan)
		if err != nil {
			return nil, err
		}
		result.Changes = changes.Diff
		logger.Debug().
			Str("before", changes.Base.Checksum).
			Str("after", changes.Target.Checksum).
			Msg("settings compared")
	}
	if req.Facts {
		result.Facts = plan.Facts
	}

	if plan.Changed {
		content := plan.Bundle.Main()
		if req.Check {
			logger.Info().Msg("settings differ, check mode: not writing")
		} else {
			if err := d.write(ctx, content); err != nil {
				return nil, err
			}
			logger.Info().Msg("settings written")
		}
		if req.Debug {
			result.Debug = fmt.Sprintf("generated %s settings: %s", d.Tool.Name(), content)
		}
	} else {
		logger.Debug().Msg("settings already in place")
	}
	return result, nil
}

// changes compares the current settings with the planned ones by name.
func (d *Driver) changes(ctx context.Context, current *biosconfig.Bundle, plan *biosconfig.Plan) (*sync.ChangeSet, error) {
	facts, err := d.Backend.ToFacts(ctx, current, biosconfig.ParseOptions{})
	if err != nil {
		return nil, err
	}
	before, err := utils.SettingsFromStruct(facts)
	if err != nil {
		return nil, err
	}
	after, err := utils.SettingsFromStruct(plan.Facts)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return sync.Compare(sync.NewSnapshot(before, now), sync.NewSnapshot(after, now)), nil
}

// read runs the tool in save mode against a scratch file and returns its content.
func (d *Driver) read(ctx context.Context) (*biosconfig.Bundle, error) {
	path, cleanup, err := d.scratch()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := d.Tool.Save(ctx, path); err != nil {
		return nil, fmt.Errorf("read %s settings: %w", d.Tool.Name(), err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s settings: %w", d.Tool.Name(), err)
	}
	return biosconfig.BundleFromBytes(d.Format, d.Backend.Name(), d.Tool.Name(), data), nil
}

// write stores content in a scratch file and runs the tool in load mode on it.
func (d *Driver) write(ctx context.Context, content []byte) error {
	path, cleanup, err := d.scratch()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write %s settings: %w", d.Tool.Name(), err)
	}
	if err := d.Tool.Load(ctx, path); err != nil {
		return fmt.Errorf("write %s settings: %w", d.Tool.Name(), err)
	}
	return nil
}

func (d *Driver) scratch() (string, func(), error) {
	f, err := os.CreateTemp(d.TempDir, d.Tool.Name()+"-*.xml")
	if err != nil {
		return "", nil, fmt.Errorf("create scratch file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("create scratch file: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}
