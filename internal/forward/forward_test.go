package forward

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/maxmcd/cmk/internal/process"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	args []string
	err  error
}

func (r *fakeRunner) Run(ctx context.Context, args []string) error {
	r.args = args
	return r.err
}

func TestRun_ForwardsArgs(t *testing.T) {
	r := &fakeRunner{}
	args := []string{"--build-dir", "out", "configure", "", "with space"}
	code := Run(context.Background(), "/work", args, r)
	assert.Equal(t, 0, code)
	assert.Equal(t, append([]string{Path("/work")}, args...), r.args)
}

func TestRun_ExitCodes(t *testing.T) {
	for _, tt := range []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, 0},
		{"exit code", process.ExitError{ExitCode: 2}, 2},
		{"wrapped exit code", errors.Wrap(process.ExitError{ExitCode: 130}, "interrupted"), 130},
		{"start failure", errors.New("no such file"), 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, Run(context.Background(), ".", nil, &fakeRunner{err: tt.err}))
		})
	}
}

func TestPath(t *testing.T) {
	want := filepath.Join("/work", "scripts", "cmk")
	if runtime.GOOS == "windows" {
		want += ".exe"
	}
	assert.Equal(t, want, Path("/work"))
}

func TestRun_Exec(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the forwarded binary")
	}
	wd := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(wd, "scripts"), 0755))
	script := "#!/bin/sh\n[ \"$1\" = \"build\" ] && [ \"$2\" = \"--build-dir\" ] && [ \"$3\" = \"a b\" ] || exit 9\nexit 5\n"
	require.NoError(t, os.WriteFile(Path(wd), []byte(script), 0755))

	out, err := os.CreateTemp(wd, "out")
	require.NoError(t, err)
	defer out.Close()
	runner := process.Exec{Stdout: out, Stderr: out}

	assert.Equal(t, 5, Run(context.Background(), wd, []string{"build", "--build-dir", "a b"}, runner))
	assert.Equal(t, 9, Run(context.Background(), wd, []string{"test"}, runner))
	assert.Equal(t, 1, Run(context.Background(), t.TempDir(), []string{"build"}, runner))
}
