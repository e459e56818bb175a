// Package tool runs the vendor BIOS configuration utilities (hprcu and conrep)
// against a settings file.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	bclog "github.com/honeybbq/biosconfig/internal/log"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

// Output is what a tool run left behind.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor starts a program and waits for it. A non-zero exit is reported in
// Output.ExitCode, not as an error; the error is for programs that could not run.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecExecutor runs programs with os/exec.
type ExecExecutor struct{}

// Run implements Executor.
func (ExecExecutor) Run(ctx context.Context, name string, args ...string) (Output, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, name, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	err := command.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("run %s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// run executes name with args and turns a failed start or a non-zero exit into a
// tool error carrying both output streams.
func run(ctx context.Context, ex Executor, name string, args ...string) (Output, error) {
	if ex == nil {
		ex = ExecExecutor{}
	}
	logger := bclog.FromContext(ctx).With().Str("component", "tool").Str("tool", name).Logger()
	logger.Debug().Strs("args", args).Msg("running vendor tool")

	out, err := ex.Run(ctx, name, args...)
	if err != nil {
		return out, bcerrors.New(bcerrors.KindTool, err)
	}
	if out.ExitCode != 0 {
		logger.Warn().Int("rc", out.ExitCode).Str("stderr", strings.TrimSpace(out.Stderr)).Msg("vendor tool failed")
		return out, bcerrors.Newf(bcerrors.KindTool, "%s failed (rc=%d): %s %s",
			name, out.ExitCode, strings.TrimSpace(out.Stdout), strings.TrimSpace(out.Stderr))
	}
	return out, nil
}
