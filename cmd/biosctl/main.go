// Command biosctl reads and writes BIOS settings through HPE's hprcu or conrep
// utilities.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/honeybbq/biosconfig/pkg/bcerrors"
	"github.com/honeybbq/biosconfig/pkg/tool"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, tool.ExecExecutor{}))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, exec tool.Executor) int {
	root := newRootCmd(&app{stdout: stdout, stderr: stderr, exec: exec})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitWithError(stderr, err)
	}
	return 0
}

func exitWithError(stderr io.Writer, err error) int {
	fmt.Fprintln(stderr, "error:", err)
	if bcerrors.Is(err, bcerrors.KindUsage) {
		return 2
	}
	return 1
}
