package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/honeybbq/biosconfig/internal/shim"
	"github.com/honeybbq/biosconfig/pkg/biosconfig"
	"github.com/honeybbq/biosconfig/pkg/tool"
)

// bundleToText returns the main document of a bundle.
func bundleToText(bundle *biosconfig.Bundle) string {
	return string(bundle.Main())
}

// normalizeConfig trims surrounding whitespace and unifies line endings.
func normalizeConfig(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text
}

// compareConfigs compares documents ignoring surrounding whitespace.
func compareConfigs(got, want string) bool {
	return normalizeConfig(got) == normalizeConfig(want)
}

// formatConfigDiff describes where two documents differ, line by line.
func formatConfigDiff(got, want string) string {
	gotNorm := normalizeConfig(got)
	wantNorm := normalizeConfig(want)

	if gotNorm == wantNorm {
		return "configs match (after normalization)"
	}

	gotLines := strings.Split(gotNorm, "\n")
	wantLines := strings.Split(wantNorm, "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "config mismatch (got %d lines, want %d lines)\n", len(gotLines), len(wantLines))
	fmt.Fprintf(&b, "--- got (normalized) ---\n%s\n", gotNorm)
	fmt.Fprintf(&b, "--- want (normalized) ---\n%s\n", wantNorm)

	maxLines := max(len(gotLines), len(wantLines))
	fmt.Fprintf(&b, "--- line-by-line diff ---\n")
	for i := 0; i < maxLines; i++ {
		var gotLine, wantLine string
		if i < len(gotLines) {
			gotLine = gotLines[i]
		}
		if i < len(wantLines) {
			wantLine = wantLines[i]
		}
		if gotLine != wantLine {
			fmt.Fprintf(&b, "Line %d differs:\n", i+1)
			fmt.Fprintf(&b, "  got:  %q\n", gotLine)
			fmt.Fprintf(&b, "  want: %q\n", wantLine)
		}
	}
	return b.String()
}

// shimExecutor runs the mock hprcu in process and remembers every loaded document.
type shimExecutor struct {
	calls  [][]string
	loaded []string
}

func (e *shimExecutor) Run(_ context.Context, _ string, args ...string) (tool.Output, error) {
	e.calls = append(e.calls, args)
	if args[len(args)-1] == "-l" {
		data, err := os.ReadFile(args[len(args)-2])
		if err != nil {
			return tool.Output{}, err
		}
		e.loaded = append(e.loaded, string(data))
	}
	var stdout, stderr bytes.Buffer
	rc := shim.Main(args, &stdout, &stderr)
	return tool.Output{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: rc}, nil
}

// fakeConrep keeps the BIOS state as a conrep data file; a load replaces the
// sections it names.
type fakeConrep struct {
	state  string
	loaded []string
}

func (c *fakeConrep) Name() string { return "conrep" }

func (c *fakeConrep) Save(_ context.Context, file string) error {
	return os.WriteFile(file, []byte(c.state), 0o600)
}

func (c *fakeConrep) Load(_ context.Context, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	c.loaded = append(c.loaded, string(data))
	return nil
}

// buildHPRCU compiles the mock hprcu binary.
func buildHPRCU(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	binaryPath := filepath.Join(t.TempDir(), "hprcu")
	// #nosec G204 -- Test code: building test binary with controlled arguments
	buildCmd := exec.Command("go", "build", "-o", binaryPath, "../cmd/hprcu")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build hprcu binary: %v\n%s", err, out)
	}
	return binaryPath
}

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}
