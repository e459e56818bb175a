package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/honeybbq/biosconfig/domain/utils"
	"github.com/honeybbq/biosconfig/internal/config"
	bclog "github.com/honeybbq/biosconfig/internal/log"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
	"github.com/honeybbq/biosconfig/pkg/driver"
	"github.com/honeybbq/biosconfig/pkg/tool"
)

type app struct {
	stdout io.Writer
	stderr io.Writer
	exec   tool.Executor

	cfg      config.Config
	registry map[string]backendEntry
	output   string
}

func newRootCmd(a *app) *cobra.Command {
	a.registry = buildRegistry()

	var toolPath, hwdef, backendName, logLevel string
	root := &cobra.Command{
		Use:           "biosctl",
		Short:         "Read and write BIOS settings through hprcu or conrep",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("backend") {
				cfg.Backend = backendName
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("hwdef") {
				cfg.HWDef = hwdef
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if flags.Changed("tool") {
				if cfg.Backend == "conrep" {
					cfg.Conrep = toolPath
				} else {
					cfg.HPRCU = toolPath
				}
			}
			a.cfg = cfg

			bclog.Configure(bclog.Config{Level: cfg.LogLevel, Output: a.stderr, Service: "biosctl"})
			ctx := bclog.ContextWithRunID(cmd.Context(), uuid.NewString())
			cmd.SetContext(ctx)
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return bcerrors.New(bcerrors.KindUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&backendName, "backend", "hprcu", "backend name (hprcu|conrep)")
	pf.StringVar(&toolPath, "tool", "", "path of the vendor tool executable")
	pf.StringVar(&hwdef, "hwdef", "", "conrep hardware definition file")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")
	pf.StringVarP(&a.output, "output", "o", "", "write the JSON result to this path instead of stdout")

	root.AddCommand(newFactsCmd(a), newApplyCmd(a), newBackendsCmd(a))
	return root
}

func newFactsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facts",
		Short: "Print the current BIOS settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			d, err := a.driver()
			if err != nil {
				return err
			}
			facts, err := d.Facts(ctx)
			if err != nil {
				return err
			}
			return a.writeResult(ctx, map[string]any{
				a.cfg.Backend: utils.ProtoMessageToMap(facts),
			})
		},
	}
}

type applyFlags struct {
	settingsFiles []string
	sets          []string
	settingsXML   string
	check         bool
	diff          bool
	facts         bool
	debug         bool
}

func newApplyCmd(a *app) *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply BIOS settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("facts") {
				f.facts = a.cfg.Facts
			}
			if !flags.Changed("check") {
				f.check = a.cfg.Check
			}
			req, err := f.request()
			if err != nil {
				return err
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			d, err := a.driver()
			if err != nil {
				return err
			}
			res, err := d.Apply(ctx, req)
			if err != nil {
				return err
			}
			return a.writeResult(ctx, resultMap(a.cfg.Backend, res))
		},
	}
	fl := cmd.Flags()
	fl.StringArrayVar(&f.settingsFiles, "settings", nil, "YAML/JSON settings file, later files override earlier ones (repeatable)")
	fl.StringArrayVar(&f.sets, "set", nil, "setting as name=value, overrides settings files (repeatable)")
	fl.StringVar(&f.settingsXML, "settings-xml", "", "complete native settings document to load instead of individual settings")
	fl.BoolVar(&f.check, "check", false, "report what would change without writing")
	fl.BoolVar(&f.diff, "diff", false, "include a before/after diff in the result")
	fl.BoolVar(&f.facts, "facts", true, "include the resulting settings in the result")
	fl.BoolVar(&f.debug, "debug", false, "include the generated settings document in the result")
	return cmd
}

func newBackendsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List supported backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range backendNames(a.registry) {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}

func (f *applyFlags) request() (driver.Request, error) {
	layers := make([]map[string]string, 0, len(f.settingsFiles)+1)
	for _, path := range f.settingsFiles {
		layer, err := biosconfig.LoadSettingsFile(path)
		if err != nil {
			return driver.Request{}, err
		}
		layers = append(layers, layer)
	}
	sets, err := parseSets(f.sets)
	if err != nil {
		return driver.Request{}, err
	}
	layers = append(layers, sets)

	merged, err := biosconfig.MergeSettings(layers...)
	if err != nil {
		return driver.Request{}, err
	}

	req := driver.Request{
		Check: f.check,
		Diff:  f.diff,
		Facts: f.facts,
		Debug: f.debug,
	}
	if len(merged) > 0 {
		req.Settings = utils.StructFromSettings(merged)
	}
	if f.settingsXML != "" {
		// path is operator supplied on the command line
		data, err := os.ReadFile(filepath.Clean(f.settingsXML)) // #nosec G304
		if err != nil {
			return driver.Request{}, fmt.Errorf("read settings xml: %w", err)
		}
		req.SettingsXML = data
	}
	return req, nil
}

func parseSets(sets []string) (map[string]string, error) {
	out := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, bcerrors.Newf(bcerrors.KindUsage, "invalid --set %q (want name=value)", s)
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}

func (a *app) driver() (*driver.Driver, error) {
	entry, ok := a.registry[a.cfg.Backend]
	if !ok {
		return nil, bcerrors.Newf(bcerrors.KindUsage, "unknown backend %q", a.cfg.Backend)
	}
	return driver.New(entry.backend, entry.newTool(a.cfg, a.exec), entry.format), nil
}

func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func resultMap(backend string, res *driver.Result) map[string]any {
	out := map[string]any{"changed": res.Changed}
	if res.Diff != nil {
		out["diff"] = map[string]any{"before": res.Diff.Before, "after": res.Diff.After}
	}
	if res.Changes != nil && !res.Changes.Empty() {
		changed := make(map[string]any, len(res.Changes.Changed))
		for name, pair := range res.Changes.Changed {
			changed[name] = map[string]any{"before": pair[0], "after": pair[1]}
		}
		out["changes"] = changed
	}
	if res.Debug != "" {
		out["debug"] = res.Debug
	}
	if res.Facts != nil {
		out["facts"] = map[string]any{backend: utils.ProtoMessageToMap(res.Facts)}
	}
	return out
}

// writeResult encodes payload as indented JSON to stdout, or atomically replaces
// the --output file.
func (a *app) writeResult(ctx context.Context, payload map[string]any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return bcerrors.New(bcerrors.KindInternal, fmt.Errorf("encode result: %w", err))
	}
	data = append(data, '\n')

	if a.output == "" || a.output == "-" {
		_, err := a.stdout.Write(data)
		return err
	}

	logger := bclog.FromContext(ctx)
	pendingFile, err := renameio.NewPendingFile(a.output)
	if err != nil {
		return fmt.Errorf("create pending output file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending output file")
		}
	}()
	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("commit output: %w", err)
	}
	return nil
}
