// Package cleanup removes stray build artifacts that a tool leaves behind
// outside of its build directory.
package cleanup

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maxmcd/cmk/internal/logger"
	"github.com/pkg/errors"
)

// MSVCPatterns match the incremental link and program database files MSVC
// drops into the working directory.
var MSVCPatterns = []string{"*.{ilk,pdb}"}

// Artifacts removes files matching Patterns from Dir when running on GOOS.
// Subdirectories are not searched and directories are never removed.
type Artifacts struct {
	GOOS     string
	Dir      string
	Patterns []string
}

// MSVC returns the artifact cleanup for MSVC builds on Windows, running
// against the current directory.
func MSVC() Artifacts {
	return Artifacts{
		GOOS:     "windows",
		Dir:      ".",
		Patterns: MSVCPatterns,
	}
}

func (a Artifacts) Run() error {
	if a.GOOS != runtime.GOOS {
		return nil
	}
	_, err := a.remove()
	return err
}

// Matches lists the files in Dir that would be removed.
func (a Artifacts) Matches() (files []string, err error) {
	dir := a.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing %q", dir)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ok, err := a.match(entry.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func (a Artifacts) match(name string) (bool, error) {
	for _, pattern := range a.Patterns {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, errors.Wrapf(err, "bad cleanup pattern %q", pattern)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (a Artifacts) remove() (removed []string, err error) {
	files, err := a.Matches()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return removed, errors.Wrap(err, "error removing build artifact")
		}
		logger.Debugw("removed artifact", "file", file)
		removed = append(removed, file)
	}
	return removed, nil
}
