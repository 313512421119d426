// Package target maps cmk modes onto cmake and ctest invocations.
package target

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maxmcd/cmk/internal/cleanup"
	"github.com/maxmcd/cmk/internal/errs"
	"github.com/maxmcd/cmk/internal/logger"
	"github.com/maxmcd/cmk/internal/process"
	"github.com/maxmcd/cmk/internal/tracing"
	"github.com/maxmcd/cmk/pkg/fxt"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTool     = "cmake"
	DefaultBuildDir = "build"
)

var tracer trace.Tracer

func init() {
	tracer = tracing.Tracer("target")
}

// PostAction runs after a mode's command has exited successfully. A nil
// PostAction means there's nothing to do.
type PostAction interface {
	Run() error
}

// Spec describes how a mode is turned into a command.
type Spec struct {
	Mode        string
	Args        []string
	Description string
	// BuildDirFlag precedes the build directory on the command line. Modes
	// that don't take a build directory leave it empty.
	BuildDirFlag string
	// Tool is the executable, the default tool is used when it's empty.
	Tool string
	Post PostAction
}

var specs = []Spec{
	{
		Mode:         "configure",
		Args:         []string{"-S", ".", "-G", "Ninja"},
		Description:  "Configure the project",
		BuildDirFlag: "-B",
	},
	{
		Mode:         "build",
		Description:  "Build the project",
		BuildDirFlag: "--build",
	},
	{
		Mode:         "db",
		Args:         []string{"-S", ".", "-DCMAKE_EXPORT_COMPILE_COMMANDS=ON"},
		Description:  "Generate compile_commands.json",
		BuildDirFlag: "-B",
	},
	{
		Mode:         "refresh",
		Args:         []string{"--fresh", "-S", ".", "-G", "Ninja"},
		Description:  "Fresh configure the project",
		BuildDirFlag: "-B",
	},
	{
		Mode:         "clean",
		Args:         []string{"--target", "clean"},
		Description:  "Clean the build files",
		BuildDirFlag: "--build",
		Post:         cleanup.MSVC(),
	},
	{
		Mode:         "test",
		Args:         []string{"--output-on-failure"},
		Description:  "Run tests",
		BuildDirFlag: "--build",
		Tool:         "ctest",
	},
}

// Modes returns every mode name in declaration order.
func Modes() []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Mode)
	}
	return out
}

// Lookup returns a copy of the spec for mode.
func Lookup(mode string) (Spec, bool) {
	for _, s := range specs {
		if s.Mode == mode {
			s.Args = append([]string(nil), s.Args...)
			return s, true
		}
	}
	return Spec{}, false
}

// Help pairs each mode with its description, one per line.
func Help() string {
	var sb strings.Builder
	for i, s := range specs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "  %-10s - %s", s.Mode, s.Description)
	}
	return sb.String()
}

// Command assembles the command line for the spec. The build directory
// flag and path come right after the tool, followed by the mode's own args.
func (s Spec) Command(buildDir, defaultTool string) []string {
	tool := s.Tool
	if tool == "" {
		tool = defaultTool
	}
	cmd := make([]string, 0, len(s.Args)+3)
	cmd = append(cmd, tool)
	if s.BuildDirFlag != "" {
		cmd = append(cmd, s.BuildDirFlag, buildDir)
	}
	return append(cmd, s.Args...)
}

// Command assembles the command line for mode.
func Command(mode, buildDir, defaultTool string) ([]string, error) {
	s, ok := Lookup(mode)
	if !ok {
		return nil, errs.ErrUnknownMode{Mode: mode, Known: Modes()}
	}
	return s.Command(buildDir, defaultTool), nil
}

// All assembles the command line for every mode.
func All(buildDir, defaultTool string) map[string][]string {
	out := make(map[string][]string, len(specs))
	for _, s := range specs {
		out[s.Mode] = s.Command(buildDir, defaultTool)
	}
	return out
}

// Target runs modes against a single build directory.
type Target struct {
	BuildDir    string
	DefaultTool string
	Runner      process.Runner

	// DryRun writes commands to Stdout instead of running them.
	DryRun bool
	Stdout io.Writer
}

// New returns a Target that runs commands as child processes.
func New(buildDir, defaultTool string) Target {
	return Target{
		BuildDir:    buildDir,
		DefaultTool: defaultTool,
		Runner:      process.Exec{},
		Stdout:      os.Stdout,
	}
}

// Invoke runs the command for mode and then its post action. A failing
// command is returned as is and the post action is skipped.
func (t Target) Invoke(ctx context.Context, mode string) (err error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "target.Invoke "+mode)
	defer span.End()

	s, ok := Lookup(mode)
	if !ok {
		return errs.ErrUnknownMode{Mode: mode, Known: Modes()}
	}
	cmd := s.Command(t.BuildDir, t.DefaultTool)
	span.SetAttributes(attribute.String("command", strings.Join(cmd, " ")))
	logger.Debugw("invoke", "mode", mode, "command", cmd)

	if t.DryRun {
		w := t.Stdout
		if w == nil {
			w = os.Stdout
		}
		fxt.Fprintcmdln(w, cmd)
		return nil
	}

	if t.Runner == nil {
		return errors.New("target has no runner")
	}
	if err = t.Runner.Run(ctx, cmd); err != nil {
		return err
	}
	if s.Post == nil {
		return nil
	}
	return errors.Wrapf(s.Post.Run(), "error running %s post action", mode)
}
