package mocks

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFileSystem_ReadFile(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/home/dev/.bashrc", "export EDITOR=vim")

	content, err := fs.ReadFile("/home/dev/.bashrc")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "export EDITOR=vim" {
		t.Errorf("ReadFile() = %q, want %q", string(content), "export EDITOR=vim")
	}
}

func TestFileSystem_ReadFile_NotFound(t *testing.T) {
	fs := NewFileSystem()

	_, err := fs.ReadFile("/nonexistent")
	if err == nil {
		t.Error("ReadFile() should return error for non-existent file")
	}
}

func TestFileSystem_WriteFile_RecordsCallAndMode(t *testing.T) {
	fs := NewFileSystem()

	err := fs.WriteFile("/home/dev/.ssh/config", []byte("Host forge\n"), 0600)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	content, _ := fs.ReadFile("/home/dev/.ssh/config")
	if string(content) != "Host forge\n" {
		t.Errorf("content = %q, want %q", string(content), "Host forge\n")
	}

	mode, ok := fs.Mode("/home/dev/.ssh/config")
	if !ok {
		t.Fatal("Mode() should know a written file")
	}
	if mode != 0600 {
		t.Errorf("mode = %o, want 0600", mode)
	}

	calls := fs.WriteCalls()
	if len(calls) != 1 || calls[0] != "/home/dev/.ssh/config" {
		t.Errorf("WriteCalls() = %v, want the written path once", calls)
	}
}

func TestFileSystem_FailWrite(t *testing.T) {
	fs := NewFileSystem()
	boom := errors.New("disk full")
	fs.FailWrite("/etc/update-motd.d/99-groundwork", boom)

	err := fs.WriteFile("/etc/update-motd.d/99-groundwork", []byte("#!/bin/sh\n"), 0755)
	if !errors.Is(err, boom) {
		t.Errorf("WriteFile() error = %v, want the injected error", err)
	}
	if len(fs.WriteCalls()) != 0 {
		t.Error("a failed write should not count as a write call")
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/home/dev/.gitconfig", "[user]")
	fs.AddDir("/home/dev/.ssh")

	if !fs.Exists("/home/dev/.gitconfig") {
		t.Error("Exists() should report an added file")
	}
	if !fs.Exists("/home/dev/.ssh") {
		t.Error("Exists() should report an added directory")
	}
	if fs.Exists("/nonexistent") {
		t.Error("Exists() should not report unknown paths")
	}
}

func TestFileSystem_MkdirAll_IsDir(t *testing.T) {
	fs := NewFileSystem()

	if err := fs.MkdirAll("/home/dev/.config/groundwork", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if !fs.IsDir("/home/dev/.config/groundwork") {
		t.Error("IsDir() should report a created directory")
	}
	if fs.IsDir("/home/dev/.bashrc") {
		t.Error("IsDir() should not report unknown paths")
	}
}

func TestFileSystem_Chmod(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFileWithMode("/home/dev/.ssh/id_ed25519", "KEY", 0644)

	if err := fs.Chmod("/home/dev/.ssh/id_ed25519", 0600); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}

	mode, _ := fs.Mode("/home/dev/.ssh/id_ed25519")
	if mode != 0600 {
		t.Errorf("mode after Chmod = %o, want 0600", mode)
	}
}

func TestFileSystem_Chmod_NotFound(t *testing.T) {
	fs := NewFileSystem()

	if err := fs.Chmod("/nonexistent", 0600); err == nil {
		t.Error("Chmod() should return error for unknown path")
	}
}

func TestFileSystem_Remove_RecordsCall(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/home/dev/.ssh/.key.staging", "KEY")

	if err := fs.Remove("/home/dev/.ssh/.key.staging"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if fs.Exists("/home/dev/.ssh/.key.staging") {
		t.Error("Remove() should delete the file")
	}

	calls := fs.RemoveCalls()
	if len(calls) != 1 || calls[0] != "/home/dev/.ssh/.key.staging" {
		t.Errorf("RemoveCalls() = %v, want the removed path once", calls)
	}
}

func TestFileSystem_Rename_CarriesMode(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFileWithMode("/home/dev/.ssh/.key.staging", "KEY", 0600)

	if err := fs.Rename("/home/dev/.ssh/.key.staging", "/home/dev/.ssh/id_ed25519"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	if fs.Exists("/home/dev/.ssh/.key.staging") {
		t.Error("Rename() should remove the old path")
	}
	content, err := fs.ReadFile("/home/dev/.ssh/id_ed25519")
	if err != nil {
		t.Fatalf("ReadFile(new path) error = %v", err)
	}
	if string(content) != "KEY" {
		t.Errorf("content = %q, want %q", string(content), "KEY")
	}
	mode, _ := fs.Mode("/home/dev/.ssh/id_ed25519")
	if mode != 0600 {
		t.Errorf("mode after Rename = %o, want 0600", mode)
	}
}

func TestFileSystem_GetFileInfo_UsesPinnedModTime(t *testing.T) {
	fs := NewFileSystem()
	fs.AddDir("/var/lib/apt/lists")
	pinned := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	fs.SetModTime("/var/lib/apt/lists", pinned)

	info, err := fs.GetFileInfo("/var/lib/apt/lists")
	if err != nil {
		t.Fatalf("GetFileInfo() error = %v", err)
	}
	if !info.IsDir {
		t.Error("IsDir should be true for a directory")
	}
	if !info.ModTime.Equal(pinned) {
		t.Errorf("ModTime = %v, want pinned %v", info.ModTime, pinned)
	}
}

func TestFileSystem_GetFileInfo_File(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFileWithMode("/etc/update-motd.d/99-groundwork", "#!/bin/sh\n", 0755)

	info, err := fs.GetFileInfo("/etc/update-motd.d/99-groundwork")
	if err != nil {
		t.Fatalf("GetFileInfo() error = %v", err)
	}
	if info.IsDir {
		t.Error("IsDir should be false for a file")
	}
	if info.Size != int64(len("#!/bin/sh\n")) {
		t.Errorf("Size = %d, want %d", info.Size, len("#!/bin/sh\n"))
	}
	if info.Mode != 0755 {
		t.Errorf("Mode = %o, want 0755", info.Mode)
	}
}

func TestFileSystem_Reset(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/home/dev/.bashrc", "content")
	_ = fs.WriteFile("/home/dev/.profile", []byte("x"), 0644)

	fs.Reset()

	if fs.Exists("/home/dev/.bashrc") || fs.Exists("/home/dev/.profile") {
		t.Error("Reset() should clear all files")
	}
	if len(fs.WriteCalls()) != 0 {
		t.Error("Reset() should clear recorded calls")
	}
}

func TestFileSystem_ConcurrentAccess(t *testing.T) {
	fs := NewFileSystem()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = fs.WriteFile("/home/dev/.bashrc", []byte("content"), 0644)
		}()
		go func() {
			defer wg.Done()
			_, _ = fs.ReadFile("/home/dev/.bashrc")
			fs.Exists("/home/dev/.bashrc")
		}()
	}
	wg.Wait()
}
