// Package forward hands a command line to the cmk binary vendored into a
// project.
package forward

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/maxmcd/cmk/internal/logger"
	"github.com/maxmcd/cmk/internal/process"
	"github.com/pkg/errors"
)

// RelativePath is where the forwarded-to binary lives beneath the working
// directory.
var RelativePath = filepath.Join("scripts", "cmk")

// Path returns the binary that Run invokes for wd.
func Path(wd string) string {
	p := filepath.Join(wd, RelativePath)
	if runtime.GOOS == "windows" {
		p += ".exe"
	}
	return p
}

// Run invokes the binary at Path(wd) with args unchanged and returns its exit
// code.
func Run(ctx context.Context, wd string, args []string, runner process.Runner) int {
	err := runner.Run(ctx, append([]string{Path(wd)}, args...))
	if err == nil {
		return 0
	}
	if ee, ok := errors.Cause(err).(process.ExitError); ok {
		return ee.ExitCode
	}
	logger.Print(err)
	return 1
}
