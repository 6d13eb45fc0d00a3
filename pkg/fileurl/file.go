// Package fileurl provides path and file helpers shared by storage and export code.
package fileurl

import (
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// IsFile determines if the given path is a file
func IsFile(path string) bool {
	return !IsDir(path)
}

// IsDir determines if the given path is a directory
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// GetFileExt gets the file extension including the dot
func GetFileExt(name string) string {
	return path.Ext(name)
}

// GetDatePath gets a date based save path, defaulting to "200601/02"
func GetDatePath(timeFormat string) string {
	now := time.Now()
	if timeFormat == "" {
		timeFormat = "200601/02"
	}
	return PathSuffixCheckAdd(now.Format(timeFormat), "/")
}

// IsExist determines if the given path exists
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory for dst
func CreatePath(dst string, perm os.FileMode) error {
	dir := filepath.Dir(dst)
	return os.MkdirAll(dir, perm)
}

// GetExePath gets the directory of the current executable
func GetExePath() string {
	file, _ := exec.LookPath(os.Args[0])
	p, _ := filepath.Abs(file)
	index := strings.LastIndex(p, string(os.PathSeparator))
	if index < 0 {
		return p
	}
	return p[:index]
}

// PathSuffixCheckAdd checks the path suffix, adding it when missing
func PathSuffixCheckAdd(path string, suffix string) string {
	if !strings.HasSuffix(path, suffix) {
		path = path + suffix
	}
	return path
}

// IsAbsPath determines whether path is absolute on the current platform
func IsAbsPath(path string) bool {
	if runtime.GOOS == "windows" {
		return filepath.VolumeName(path) != ""
	}
	return strings.HasPrefix(path, "/")
}

// SafeJoin joins elem onto base and rejects escapes above base.
func SafeJoin(base string, elem string) (string, bool) {
	joined := filepath.Join(base, elem)
	cleanBase := filepath.Clean(base)
	if joined != cleanBase && !strings.HasPrefix(joined, cleanBase+string(os.PathSeparator)) {
		return "", false
	}
	return joined, true
}
