// Package shim implements a stand-in for HPE's hprcu BIOS configuration utility.
//
// Read mode (-s) dumps a canned settings document instead of reading the ROM.
// Write mode (-l) parses a settings document and reports success instead of
// programming the ROM. Neither mode touches hardware.
package shim

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	bclog "github.com/honeybbq/biosconfig/internal/log"
	ast "github.com/honeybbq/biosconfig/pkg/ast/hprcu"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
	hprcurenderer "github.com/honeybbq/biosconfig/pkg/renderer/hprcu"
)

// WriteDoneMessage is printed after a successful write-to-hardware run.
const WriteDoneMessage = "Writing BIOS ... done"

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Mode selects what a run does.
type Mode int

const (
	// ModeLoad applies a settings document to the BIOS (-l).
	ModeLoad Mode = iota + 1
	// ModeSave dumps the current BIOS settings to a document (-s).
	ModeSave
)

func (m Mode) String() string {
	switch m {
	case ModeLoad:
		return "load"
	case ModeSave:
		return "save"
	}
	return "unknown"
}

// Options are the parsed command line arguments.
type Options struct {
	Mode Mode
	File string
	// Advanced mirrors the vendor tool's hidden option switch. It is accepted and
	// otherwise ignored.
	Advanced bool
}

// ParseArgs parses args (without the program name). Usage problems are reported on
// stderr and returned as bcerrors.KindUsage errors; pflag.ErrHelp is returned as is.
func ParseArgs(args []string, stderr io.Writer) (Options, error) {
	var (
		load, save bool
		opts       Options
	)

	fs := pflag.NewFlagSet("hprcu", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVarP(&load, "load", "l", false, "write the settings document to the BIOS")
	fs.BoolVarP(&save, "save", "s", false, "read the BIOS settings into the settings document")
	fs.StringVarP(&opts.File, "file", "f", DefaultFile, "settings document path")
	fs.BoolVarP(&opts.Advanced, "advanced", "a", false, "include advanced options")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: hprcu (-l | -s) [-f file] [-a]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Options{}, err
		}
		return Options{}, usageError(fs, err)
	}
	if fs.NArg() > 0 {
		return Options{}, usageError(fs, fmt.Errorf("unexpected arguments: %v", fs.Args()))
	}

	switch {
	case load && save:
		return Options{}, usageError(fs, errors.New("-l and -s are mutually exclusive"))
	case load:
		opts.Mode = ModeLoad
	case save:
		opts.Mode = ModeSave
	default:
		return Options{}, usageError(fs, errors.New("one of -l or -s is required"))
	}
	return opts, nil
}

func usageError(fs *pflag.FlagSet, err error) error {
	fmt.Fprintln(fs.Output(), "error:", err)
	fs.Usage()
	return bcerrors.New(bcerrors.KindUsage, err)
}

// Save writes the canned settings document to path, replacing any existing file.
func Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings document: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close settings document: %w", cerr)
		}
	}()

	if _, err = io.WriteString(f, Sample+"\n"); err != nil {
		return fmt.Errorf("write settings document: %w", err)
	}
	return nil
}

// maxDocumentSize bounds how much of a settings document write mode reads.
const maxDocumentSize = 16 * 1024 * 1024

// Load checks that the settings document at path is well-formed XML with a single
// root element. Field level validation is not performed. The returned document is
// the typed view of the file when it fits the hprcu model, nil otherwise.
func Load(path string) (*ast.Document, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if err := CheckWellFormed(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	doc, err := hprcurenderer.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	return doc, nil
}

func readDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings document: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read settings document: %w", err)
	}
	return data, nil
}

// CheckWellFormed walks every token of r with a strict decoder and requires
// exactly one root element and no text outside it.
func CheckWellFormed(r io.Reader) error {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.Entity = make(map[string]string)

	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return bcerrors.New(bcerrors.KindParse, fmt.Errorf("malformed settings document: %w", err))
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return bcerrors.Newf(bcerrors.KindParse, "malformed settings document: extra root element <%s>", t.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return bcerrors.Newf(bcerrors.KindParse, "malformed settings document: text outside the root element")
			}
		}
	}
	if roots == 0 {
		return bcerrors.Newf(bcerrors.KindParse, "malformed settings document: no root element")
	}
	return nil
}

// Run executes one invocation described by opts.
func Run(opts Options, stdout io.Writer) error {
	logger := bclog.WithComponent("shim")
	logger.Debug().
		Str("mode", opts.Mode.String()).
		Str("file", opts.File).
		Bool("advanced", opts.Advanced).
		Msg("hprcu invoked")

	switch opts.Mode {
	case ModeSave:
		if err := Save(opts.File); err != nil {
			return err
		}
		logger.Debug().Str("file", opts.File).Msg("settings dumped")
		return nil
	case ModeLoad:
		doc, err := Load(opts.File)
		if err != nil {
			return err
		}
		if doc != nil {
			logger.Debug().Int("features", len(doc.Features)).Msg("settings parsed")
		} else {
			logger.Debug().Msg("settings document is not an hprcu dump, accepted as is")
		}
		_, err = fmt.Fprintln(stdout, WriteDoneMessage)
		return err
	}
	return bcerrors.Newf(bcerrors.KindUsage, "unknown mode %d", opts.Mode)
}

// Main parses args, runs the tool and returns the process exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	opts, err := ParseArgs(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		return ExitUsage
	}
	if err := Run(opts, stdout); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		if bcerrors.Is(err, bcerrors.KindUsage) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitOK
}
