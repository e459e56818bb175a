package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeybbq/biosconfig/internal/shim"
	"github.com/honeybbq/biosconfig/pkg/tool"
)

// fakeTools plays hprcu through the in-process mock and conrep from a canned dump.
type fakeTools struct {
	calls  []string
	loaded []string
}

const conrepDump = `<Conrep>
  <Section name="Intel_Hyperthreading">Disabled</Section>
  <Section name="PowerMonitoring">Enabled</Section>
</Conrep>
`

func (f *fakeTools) Run(_ context.Context, name string, args ...string) (tool.Output, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	file := args[len(args)-2]
	mode := args[len(args)-1]
	if mode == "-l" {
		data, err := os.ReadFile(file)
		if err != nil {
			return tool.Output{}, err
		}
		f.loaded = append(f.loaded, string(data))
	}
	if filepath.Base(name) == "conrep" {
		if mode == "-s" {
			if err := os.WriteFile(file, []byte(conrepDump), 0o600); err != nil {
				return tool.Output{}, err
			}
		}
		return tool.Output{}, nil
	}
	var stdout, stderr bytes.Buffer
	rc := shim.Main(args, &stdout, &stderr)
	return tool.Output{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: rc}, nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "BIOSCTL_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string, *fakeTools) {
	t.Helper()
	clearEnv(t)
	fake := &fakeTools{}
	var stdout, stderr bytes.Buffer
	rc := run(context.Background(), args, &stdout, &stderr, fake)
	return rc, stdout.String(), stderr.String(), fake
}

func decode(t *testing.T, data string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &out), data)
	return out
}

func TestBackends(t *testing.T) {
	rc, stdout, _, _ := runCLI(t, "backends")
	require.Equal(t, 0, rc)
	assert.Equal(t, "conrep\nhprcu\n", stdout)
}

func TestFacts(t *testing.T) {
	rc, stdout, stderr, fake := runCLI(t, "facts")
	require.Equal(t, 0, rc, stderr)

	out := decode(t, stdout)
	facts := out["hprcu"].(map[string]any)
	assert.Equal(t, "mock-server", facts["Server Name"])
	assert.Equal(t, "Disabled", facts["Intel(R) Hyperthreading Options"])
	require.Len(t, fake.calls, 1)
	assert.True(t, strings.HasPrefix(fake.calls[0], "hprcu -a -f "), fake.calls[0])
}

func TestApplySet(t *testing.T) {
	rc, stdout, stderr, fake := runCLI(t, "apply", "--set", "Intel(R) Hyperthreading Options=Enabled", "--diff")
	require.Equal(t, 0, rc, stderr)

	out := decode(t, stdout)
	assert.Equal(t, true, out["changed"])
	diff := out["diff"].(map[string]any)
	assert.Contains(t, diff["before"], `selected_option_id="2"`)
	changes := out["changes"].(map[string]any)
	assert.Equal(t, map[string]any{"before": "Disabled", "after": "Enabled"}, changes["Intel(R) Hyperthreading Options"])
	facts := out["facts"].(map[string]any)["hprcu"].(map[string]any)
	assert.Equal(t, "Enabled", facts["Intel(R) Hyperthreading Options"])
	require.Len(t, fake.loaded, 1)
}

func TestApplyCheck(t *testing.T) {
	rc, stdout, stderr, fake := runCLI(t, "apply", "--check", "--facts=false", "--set", "Server Name=db-01")
	require.Equal(t, 0, rc, stderr)

	out := decode(t, stdout)
	assert.Equal(t, true, out["changed"])
	assert.NotContains(t, out, "facts")
	assert.NotContains(t, out, "diff")
	assert.Empty(t, fake.loaded)
}

func TestApplyCheckFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIOSCTL_CHECK", "true")
	fake := &fakeTools{}
	var stdout, stderr bytes.Buffer
	rc := run(context.Background(), []string{"apply", "--set", "Server Name=db-01"}, &stdout, &stderr, fake)
	require.Equal(t, 0, rc, stderr.String())
	assert.Empty(t, fake.loaded)
}

func TestBackendFlagOverridesInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIOSCTL_BACKEND", "bogus")
	fake := &fakeTools{}
	var stdout, stderr bytes.Buffer
	rc := run(context.Background(), []string{"--backend", "hprcu", "facts"}, &stdout, &stderr, fake)
	require.Equal(t, 0, rc, stderr.String())
	assert.Contains(t, decode(t, stdout.String()), "hprcu")

	stdout.Reset()
	stderr.Reset()
	rc = run(context.Background(), []string{"facts"}, &stdout, &stderr, fake)
	assert.Equal(t, 2, rc)
	assert.Contains(t, stderr.String(), `unknown backend "bogus"`)
}

func TestApplySettingsFilesAndOverrides(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	host := filepath.Join(dir, "host.yaml")
	require.NoError(t, os.WriteFile(base, []byte("Server Name: base\nIntel(R) Hyperthreading Options: Enabled\n"), 0o600))
	require.NoError(t, os.WriteFile(host, []byte("Server Name: host\n"), 0o600))

	rc, stdout, stderr, fake := runCLI(t, "apply",
		"--settings", base, "--settings", host,
		"--set", "Server Name=cli")
	require.Equal(t, 0, rc, stderr)

	facts := decode(t, stdout)["facts"].(map[string]any)["hprcu"].(map[string]any)
	assert.Equal(t, "cli", facts["Server Name"])
	assert.Equal(t, "Enabled", facts["Intel(R) Hyperthreading Options"])
	require.Len(t, fake.loaded, 1)
	assert.Contains(t, fake.loaded[0], "<feature_value>cli</feature_value>")
}

func TestApplySettingsXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desired.xml")
	doc := strings.Replace(shim.Sample, "mock-server", "from-xml", 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	rc, stdout, stderr, fake := runCLI(t, "apply", "--settings-xml", path, "--debug")
	require.Equal(t, 0, rc, stderr)

	out := decode(t, stdout)
	assert.Equal(t, true, out["changed"])
	assert.Contains(t, out["debug"], "from-xml")
	require.Len(t, fake.loaded, 1)
}

func TestApplyConrep(t *testing.T) {
	rc, stdout, stderr, fake := runCLI(t, "--backend", "conrep", "--hwdef", "/etc/hw.xml",
		"apply", "--set", "Intel_Hyperthreading=Enabled", "--diff")
	require.Equal(t, 0, rc, stderr)

	out := decode(t, stdout)
	assert.Equal(t, true, out["changed"])
	assert.Equal(t, "Intel_Hyperthreading => Enabled\n", out["diff"].(map[string]any)["after"])
	require.NotEmpty(t, fake.calls)
	assert.True(t, strings.HasPrefix(fake.calls[0], "conrep -x /etc/hw.xml -f "), fake.calls[0])
	require.Len(t, fake.loaded, 1)
	assert.Equal(t, "<Conrep>\n<Section name=\"Intel_Hyperthreading\">Enabled</Section>\n</Conrep>\n", fake.loaded[0])
}

func TestOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.json")
	rc, stdout, stderr, _ := runCLI(t, "facts", "--output", path)
	require.Equal(t, 0, rc, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, decode(t, string(data)), "hprcu")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantExit int
		wantErr  string
	}{
		{"unknown flag", []string{"apply", "--bogus"}, 2, "unknown flag"},
		{"bad set", []string{"apply", "--set", "novalue"}, 2, `invalid --set "novalue"`},
		{"unknown backend", []string{"--backend", "ilorest", "facts"}, 2, `unknown backend "ilorest"`},
		{"unknown setting", []string{"apply", "--set", "Turbo=On"}, 1, "some features are unknown to this hprcu: Turbo"},
		{"unknown option", []string{"apply", "--set", "Intel(R) Hyperthreading Options=Auto"}, 1, `selected value "Auto"`},
		{"missing settings file", []string{"apply", "--settings", "/nonexistent/settings.yaml"}, 1, "read settings file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, _, stderr, fake := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantExit, rc)
			assert.Contains(t, stderr, "error:")
			assert.Contains(t, stderr, tt.wantErr)
			assert.Empty(t, fake.loaded)
		})
	}
}

func TestToolFailure(t *testing.T) {
	rc, _, stderr, _ := runCLI(t, "--tool", "/opt/hp/conrep", "--backend", "conrep", "facts")
	require.Equal(t, 0, rc, stderr)

	clearEnv(t)
	var stdout, errb bytes.Buffer
	rc = run(context.Background(), []string{"facts"}, &stdout, &errb, failing{})
	assert.Equal(t, 1, rc)
	assert.Contains(t, errb.String(), "hprcu failed (rc=5): nope")
}

type failing struct{}

func (failing) Run(context.Context, string, ...string) (tool.Output, error) {
	return tool.Output{Stderr: "nope", ExitCode: 5}, nil
}
