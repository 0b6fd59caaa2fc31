package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "nested", "output")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Parents are created too
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if info, err := os.Stat(testDir); err != nil || !info.IsDir() {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestCreateDirectoryIfNotExists_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	err := CreateDirectoryIfNotExists(path)
	if err == nil {
		t.Fatal("Expected error when a file occupies the path")
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Unexpected error: %v", err)
	}

	err = CreateDirectoryIfNotExists(filepath.Join(path, "child"))
	if err == nil {
		t.Fatal("Expected error when a parent is a regular file")
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}
	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestDefaultOutputDirectory(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Skipf("working directory unavailable: %v", err)
	}
	if got := DefaultOutputDirectory(); got != wd {
		t.Errorf("DefaultOutputDirectory() = %q, expected %q", got, wd)
	}
}

func TestDownloaderFileName(t *testing.T) {
	name := DownloaderFileName()
	if runtime.GOOS == OSWindows {
		if name != "yutto.exe" {
			t.Errorf("Expected yutto.exe, got %s", name)
		}
		return
	}
	if name != "yutto" {
		t.Errorf("Expected yutto, got %s", name)
	}
}

func TestDefaultExecutable(t *testing.T) {
	// The test binary has no downloader next to it, so PATH lookup is used
	if got := DefaultExecutable(); got != DownloaderName {
		t.Errorf("DefaultExecutable() = %q, expected %q", got, DownloaderName)
	}
}

func TestOpenFolderInManager_NonExistentFolder(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	err := OpenFolderInManager(missing)
	if err == nil {
		t.Fatal("Expected error for non-existent folder, got nil")
	}
	if !strings.Contains(err.Error(), "folder does not exist:") {
		t.Errorf("Error message should contain 'folder does not exist:', got: %v", err)
	}
}

func TestOpenFolderInManager_RegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	err := OpenFolderInManager(path)
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Expected not a directory error, got: %v", err)
	}
}
