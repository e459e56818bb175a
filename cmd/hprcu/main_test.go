package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeybbq/biosconfig/internal/shim"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	binaryPath := filepath.Join(t.TempDir(), "hprcu-test")
	// #nosec G204 -- Test code: building test binary with controlled arguments
	buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build hprcu binary: %v\n%s", err, out)
	}
	return binaryPath
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	t.Fatalf("unexpected error running hprcu: %v", err)
	return -1
}

func TestHprcuCLI(t *testing.T) {
	binaryPath := buildBinary(t)
	workDir := t.TempDir()
	document := filepath.Join(workDir, "dump.xml")

	tests := []struct {
		name       string
		args       []string
		wantExit   int
		wantStdout string
	}{
		{name: "save", args: []string{"-s", "-f", document}, wantExit: 0},
		{name: "load saved document", args: []string{"-l", "-f", document}, wantExit: 0, wantStdout: shim.WriteDoneMessage + "\n"},
		{name: "load with advanced", args: []string{"-a", "-l", "-f", document}, wantExit: 0, wantStdout: shim.WriteDoneMessage + "\n"},
		{name: "load missing document", args: []string{"-l", "-f", filepath.Join(workDir, "missing.xml")}, wantExit: 1},
		{name: "no mode", args: nil, wantExit: 2},
		{name: "both modes", args: []string{"-l", "-s"}, wantExit: 2},
	}

	// subtests share the dumped document and run in order
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// #nosec G204 -- Test code: running test binary with controlled arguments
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Dir = workDir
			stdout, err := cmd.Output()
			assert.Equal(t, tt.wantExit, exitCode(t, err))
			assert.Equal(t, tt.wantStdout, string(stdout))
		})
	}
}

func TestHprcuCLI_DefaultFile(t *testing.T) {
	binaryPath := buildBinary(t)
	workDir := t.TempDir()

	// #nosec G204 -- Test code: running test binary with controlled arguments
	cmd := exec.Command(binaryPath, "-s")
	cmd.Dir = workDir
	require.NoError(t, cmd.Run())

	got, err := os.ReadFile(filepath.Join(workDir, "hprcu.xml"))
	require.NoError(t, err)
	assert.Equal(t, shim.Sample+"\n", string(got))
}
