package command

import (
	"context"
	"fmt"
	"io"

	"github.com/maxmcd/cmk/internal/config"
	"github.com/maxmcd/cmk/internal/process"
	"github.com/maxmcd/cmk/internal/target"
	"github.com/maxmcd/cmk/pkg/fxt"
)

type options struct {
	wd     string
	stdout io.Writer
	stderr io.Writer
	runner process.Runner
}

type cmk struct {
	cfg    config.Config
	target target.Target
}

// buildDirFlags holds the --build-dir values given to the app and to the
// mode, empty when unset.
type buildDirFlags struct {
	global string
	mode   string
}

func (f buildDirFlags) resolve(cfg config.Config) string {
	if f.mode != "" {
		return f.mode
	}
	if f.global != "" {
		return f.global
	}
	return cfg.BuildDir
}

func newCmk(o options, flags buildDirFlags, dryRun bool) (c cmk, err error) {
	if c.cfg, err = config.Load(o.wd); err != nil {
		return
	}
	c.target = target.New(flags.resolve(c.cfg), c.cfg.DefaultTool)
	c.target.DryRun = dryRun
	if o.runner != nil {
		c.target.Runner = o.runner
	}
	if o.stdout != nil {
		c.target.Stdout = o.stdout
	}
	return c, nil
}

func (c cmk) invoke(ctx context.Context, mode string) error {
	return c.target.Invoke(ctx, mode)
}

func (c cmk) listModes(w io.Writer) {
	all := target.All(c.target.BuildDir, c.target.DefaultTool)
	for _, mode := range target.Modes() {
		fmt.Fprintf(w, "%-10s ", mode)
		fxt.Fprintcmdln(w, all[mode])
	}
}
