package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/maxmcd/cmk/internal/errs"
	"github.com/maxmcd/cmk/internal/logger"
	"github.com/maxmcd/cmk/internal/process"
	"github.com/maxmcd/cmk/internal/target"
	"github.com/maxmcd/cmk/internal/tracing"
	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace"
)

const usage = "cmk [--build-dir dir] [--dry-run] <mode>"

var (
	commandHelpTemplate = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}}{{if .VisibleFlags}} [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}{{if .Description}}

Description:
   {{.Description | nindent 3 | trim}}{{end}}{{if .VisibleFlags}}

Options:{{range .VisibleFlags}}
   {{.}}{{end}}{{end}}
`

	appHelpTemplate = `Usage: {{.Usage}}
	{{.Description | nindent 3 | trim}}

Modes:
` + target.Help() + `

Commands:
  modes       Print the command each mode runs

Options:
	{{range $index, $option := .VisibleFlags}}{{if $index}}
	{{end}}{{$option}}{{end}}
`
)

var tracer trace.Tracer

func init() {
	tracer = tracing.Tracer("command")
}

func buildDirFlag(dest *string, envVars []string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "build-dir",
		Aliases:     []string{"B"},
		Usage:       fmt.Sprintf("the build directory, defaults to build_dir in cmk.toml or %q", target.DefaultBuildDir),
		EnvVars:     envVars,
		Destination: dest,
	}
}

func onUsageError(c *cli.Context, err error, isSubcommand bool) error {
	return errs.ErrUsage{Err: err}
}

func cliApp(o options) *cli.App {
	var (
		flags  buildDirFlags
		dryRun bool
	)
	app := &cli.App{
		Name:  "cmk",
		Usage: usage,
		Description: `cmk runs cmake and ctest with the arguments this project always uses.
A build directory given after the mode takes precedence over one given before it.`,
		Version:               "0.1.0",
		HideHelpCommand:       true,
		CustomAppHelpTemplate: appHelpTemplate,
		Writer:                o.stdout,
		ErrWriter:             o.stderr,
		OnUsageError:          onUsageError,
		Flags: []cli.Flag{
			buildDirFlag(&flags.global, []string{"CMK_BUILD_DIR"}),
			&cli.BoolFlag{
				Name:        "dry-run",
				Aliases:     []string{"n"},
				Usage:       "print the command instead of running it",
				Destination: &dryRun,
			},
		},
		Action: func(c *cli.Context) error {
			return errs.ErrUnknownMode{Mode: c.Args().First(), Known: target.Modes()}
		},
	}

	for _, mode := range target.Modes() {
		mode := mode
		s, _ := target.Lookup(mode)
		app.Commands = append(app.Commands, &cli.Command{
			Name:         mode,
			Usage:        s.Description,
			UsageText:    fmt.Sprintf("cmk %s [--build-dir dir]", mode),
			Description:  "Runs: " + strings.Join(s.Command("<build-dir>", target.DefaultTool), " "),
			OnUsageError: onUsageError,
			Flags:        []cli.Flag{buildDirFlag(&flags.mode, nil)},
			Action: func(c *cli.Context) error {
				ctx, span := tracer.Start(c.Context, "cmk "+mode)
				defer span.End()

				if c.Args().Present() {
					return errs.ErrUsage{Err: errors.Errorf("%s takes no arguments, got %q", mode, c.Args().Slice())}
				}
				b, err := newCmk(o, flags, dryRun)
				if err != nil {
					return err
				}
				return b.invoke(ctx, mode)
			},
		})
	}
	app.Commands = append(app.Commands, &cli.Command{
		Name:         "modes",
		Usage:        "Print the command each mode runs",
		UsageText:    "cmk modes [--build-dir dir]",
		OnUsageError: onUsageError,
		Flags:        []cli.Flag{buildDirFlag(&flags.mode, nil)},
		Action: func(c *cli.Context) error {
			b, err := newCmk(o, flags, true)
			if err != nil {
				return err
			}
			b.listModes(o.stdout)
			return nil
		},
	})

	for _, c := range app.Commands {
		c.CustomHelpTemplate = commandHelpTemplate

		// Wrap the options help to 80 width. Requires knowledge of the longest
		// flag length.
		longest := 0
		for _, flag := range c.Flags {
			for _, name := range flag.Names() {
				if len(name) > longest {
					longest = len(name)
				}
			}
		}
		for _, flag := range c.Flags {
			switch c := flag.(type) {
			case *cli.BoolFlag:
				c.Usage = formatFlag(c.Usage, longest)
			case *cli.StringFlag:
				c.Usage = formatFlag(c.Usage, longest)
			}
		}
	}
	return app
}

// run runs the app with args and returns the exit code, reporting any error to
// o.stderr.
func run(ctx context.Context, o options, args []string) int {
	err := cliApp(o).RunContext(ctx, args)
	if err == nil {
		return 0
	}
	if er, ok := errors.Cause(err).(process.ExitError); ok {
		logger.Failure(o.stderr, "Error: Command failed with exit code %d", er.ExitCode)
		return er.ExitCode
	}
	if errors.Is(err, errs.ErrUnknownMode{}) || errors.Is(err, errs.ErrUsage{}) {
		fmt.Fprintf(o.stderr, "Usage: %s\n", usage)
		fmt.Fprintf(o.stderr, "cmk: error: %s\n", err)
		return 2
	}
	logger.Failure(o.stderr, "Error: %s", err)
	return 1
}

// RunCLI runs the cli with os.Args
func RunCLI() {
	// Patch cli lib to remove bool default
	oldFlagStringer := cli.FlagStringer
	cli.FlagStringer = func(f cli.Flag) string {
		return strings.TrimSuffix(oldFlagStringer(f), " (default: false)")
	}

	wd, err := os.Getwd()
	if err != nil {
		logger.Print(err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		s := make(chan os.Signal, 5)
		count := 0
		// The running tool gets the interrupt through the context.
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		for {
			<-s
			count++
			cancel()
			if count == 3 {
				logger.Print("Three interrupt attempts, exiting immediately")
				os.Exit(1)
			}
		}
	}()

	exitCode := run(ctx, options{
		wd:     wd,
		stdout: os.Stdout,
		stderr: os.Stderr,
		runner: process.Exec{},
	}, os.Args)
	// Explicitly call stop since the Exit will not call the defer
	tracing.Stop()
	os.Exit(exitCode)
}

func formatFlag(usage string, longest int) string {
	return strings.ReplaceAll(
		wordwrap.WrapString(usage,
			uint(80-3-longest-3),
		), "\n", "\n\t")
}
