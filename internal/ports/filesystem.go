package ports

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo is the subset of file metadata steps inspect.
type FileInfo struct {
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
}

// FileSystem provides the file operations provisioning steps perform.
//
// WriteFile applies perm subject to the process umask; steps that must
// guarantee a mode (secret material, executables) call Chmod afterwards.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, mode os.FileMode) error
	Remove(path string) error
	Rename(oldPath, newPath string) error
	GetFileInfo(path string) (FileInfo, error)
}

// ExpandPath expands a leading ~/ against the current process's home
// directory. It is for CLI-level defaults (config file discovery); steps
// resolve paths against the target user's home via ExpandHome instead, so
// that running under sudo provisions the invoking user, not root.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ExpandHome expands a leading ~/ against an explicit home directory.
func ExpandHome(home, path string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
