package mocks

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// FileSystem is a thread-safe test double for ports.FileSystem. It tracks
// per-path modes so permission invariants are assertable, and records write
// and remove calls so idempotence tests can prove a run had no effects.
type FileSystem struct {
	mu          sync.RWMutex
	files       map[string][]byte
	dirs        map[string]bool
	modes       map[string]os.FileMode
	modTimes    map[string]time.Time
	writeCalls  []string
	removeCalls []string
	writeErrs   map[string]error
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		modes:     make(map[string]os.FileMode),
		modTimes:  make(map[string]time.Time),
		writeErrs: make(map[string]error),
	}
}

// SetModTime pins the modification time GetFileInfo reports for path.
func (fs *FileSystem) SetModTime(path string, t time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.modTimes[path] = t
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
	fs.modes[path] = 0o644
}

// AddFileWithMode adds a file with an explicit mode.
func (fs *FileSystem) AddFileWithMode(path string, content string, mode os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
	fs.modes[path] = mode
}

// SetFileContent sets file content directly as bytes.
func (fs *FileSystem) SetFileContent(path string, content []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = content
	if _, ok := fs.modes[path]; !ok {
		fs.modes[path] = 0o644
	}
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	fs.modes[path] = 0o755
}

// FailWrite makes WriteFile return err for the given path.
func (fs *FileSystem) FailWrite(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.writeErrs[path] = err
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file to the mock filesystem, recording the call.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err, ok := fs.writeErrs[path]; ok {
		return err
	}
	fs.writeCalls = append(fs.writeCalls, path)
	fs.files[path] = data
	fs.modes[path] = perm
	return nil
}

// Exists checks if a file or directory exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	return fileExists || fs.dirs[path]
}

// IsDir checks if a path is a directory in the mock filesystem.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// MkdirAll creates a directory in the mock filesystem.
func (fs *FileSystem) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	fs.modes[path] = perm
	return nil
}

// Chmod records the exact mode for a path.
func (fs *FileSystem) Chmod(path string, mode os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return fmt.Errorf("file not found: %s", path)
	}
	fs.modes[path] = mode
	return nil
}

// Remove removes a file or directory, recording the call.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.removeCalls = append(fs.removeCalls, path)
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(fs.files, path)
	delete(fs.dirs, path)
	delete(fs.modes, path)
	return nil
}

// Rename renames a file in the mock filesystem.
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	content, ok := fs.files[oldPath]
	if !ok {
		return fmt.Errorf("file not found: %s", oldPath)
	}
	fs.files[newPath] = content
	fs.modes[newPath] = fs.modes[oldPath]
	delete(fs.files, oldPath)
	delete(fs.modes, oldPath)
	return nil
}

// GetFileInfo returns metadata about a file in the mock filesystem.
func (fs *FileSystem) GetFileInfo(path string) (ports.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	modTime, ok := fs.modTimes[path]
	if !ok {
		modTime = time.Now()
	}

	if content, ok := fs.files[path]; ok {
		return ports.FileInfo{
			Size:    int64(len(content)),
			Mode:    fs.modes[path],
			ModTime: modTime,
			IsDir:   false,
		}, nil
	}

	if fs.dirs[path] {
		return ports.FileInfo{
			Size:    0,
			Mode:    fs.modes[path],
			ModTime: modTime,
			IsDir:   true,
		}, nil
	}

	return ports.FileInfo{}, fmt.Errorf("file not found: %s", path)
}

// Mode returns the recorded mode for a path, for permission assertions.
func (fs *FileSystem) Mode(path string) (os.FileMode, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	mode, ok := fs.modes[path]
	return mode, ok
}

// WriteCalls returns the paths written, in order.
func (fs *FileSystem) WriteCalls() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	calls := make([]string, len(fs.writeCalls))
	copy(calls, fs.writeCalls)
	return calls
}

// RemoveCalls returns the paths removed, in order.
func (fs *FileSystem) RemoveCalls() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	calls := make([]string, len(fs.removeCalls))
	copy(calls, fs.removeCalls)
	return calls
}

// Reset clears all state.
func (fs *FileSystem) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files = make(map[string][]byte)
	fs.dirs = make(map[string]bool)
	fs.modes = make(map[string]os.FileMode)
	fs.modTimes = make(map[string]time.Time)
	fs.writeCalls = nil
	fs.removeCalls = nil
	fs.writeErrs = make(map[string]error)
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
