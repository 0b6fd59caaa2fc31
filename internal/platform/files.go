package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Downloader executable
const (
	DownloaderName      = "yutto"
	WindowsExeExtension = ".exe"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// CreateDirectoryIfNotExists creates a directory (and parents) if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dirPath)
	}
	return nil
}

// GetHomeDownloadsDir returns the user's Downloads directory
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// DefaultOutputDirectory returns the working directory, falling back to the
// Downloads directory when it cannot be determined
func DefaultOutputDirectory() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	if dir, err := GetHomeDownloadsDir(); err == nil {
		return dir
	}
	return "."
}

// DownloaderFileName returns the platform file name of the downloader
func DownloaderFileName() string {
	if runtime.GOOS == OSWindows {
		return DownloaderName + WindowsExeExtension
	}
	return DownloaderName
}

// DefaultExecutable prefers a downloader shipped next to our own binary and
// otherwise leaves resolution to PATH
func DefaultExecutable() string {
	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), DownloaderFileName())
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled
		}
	}
	return DownloaderName
}

// OpenFolderInManager opens a directory in the system file manager
func OpenFolderInManager(dirPath string) error {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", absPath)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Start()
	case OSWindows:
		return exec.Command(ExplorerCommand, absPath).Start()
	case OSLinux:
		return openFolderLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFolderLinux tries xdg-open first, then common file managers
func openFolderLinux(dir string) error {
	if _, err := exec.LookPath(XDGOpenCommand); err == nil {
		return exec.Command(XDGOpenCommand, dir).Start()
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Start()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}
