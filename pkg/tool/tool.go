package tool

import (
	"context"
)

// Tool reads the current BIOS settings into a file and writes a settings file
// back to the BIOS.
type Tool interface {
	Name() string
	Save(ctx context.Context, file string) error
	Load(ctx context.Context, file string) error
}

// HPRCU drives the hprcu utility.
type HPRCU struct {
	Path     string
	Advanced bool
	Exec     Executor
}

// Name implements Tool.
func (h *HPRCU) Name() string {
	return "hprcu"
}

// Save implements Tool. It runs "hprcu [-a] -f file -s".
func (h *HPRCU) Save(ctx context.Context, file string) error {
	_, err := run(ctx, h.Exec, h.path(), h.args(file, "-s")...)
	return err
}

// Load implements Tool. It runs "hprcu [-a] -f file -l".
func (h *HPRCU) Load(ctx context.Context, file string) error {
	_, err := run(ctx, h.Exec, h.path(), h.args(file, "-l")...)
	return err
}

func (h *HPRCU) path() string {
	if h.Path == "" {
		return "hprcu"
	}
	return h.Path
}

func (h *HPRCU) args(file, mode string) []string {
	var args []string
	if h.Advanced {
		args = append(args, "-a")
	}
	return append(args, "-f", file, mode)
}

// Conrep drives the conrep utility.
type Conrep struct {
	Path  string
	HWDef string
	Exec  Executor
}

// Name implements Tool.
func (c *Conrep) Name() string {
	return "conrep"
}

// Save implements Tool. It runs "conrep [-x hwdef] -f file -s".
func (c *Conrep) Save(ctx context.Context, file string) error {
	_, err := run(ctx, c.Exec, c.path(), c.args(file, "-s")...)
	return err
}

// Load implements Tool. It runs "conrep [-x hwdef] -f file -l".
func (c *Conrep) Load(ctx context.Context, file string) error {
	_, err := run(ctx, c.Exec, c.path(), c.args(file, "-l")...)
	return err
}

func (c *Conrep) path() string {
	if c.Path == "" {
		return "conrep"
	}
	return c.Path
}

func (c *Conrep) args(file, mode string) []string {
	var args []string
	if c.HWDef != "" {
		args = append(args, "-x", c.HWDef)
	}
	return append(args, "-f", file, mode)
}
