package fileutil

import "os"

// FileExists will only return true if the path is a file, not a directory
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}
