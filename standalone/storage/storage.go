package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// The data directory holds everything the host writes or looks up by
// default:
//
//	<base>/config.json
//	<base>/screenshots/   RAlt+S captures
//	<base>/sdcard/        default SD card root handed to the machine
//	<base>/firmware/      relative firmware paths resolve here
const (
	configFile     = "config.json"
	screenshotsDir = "screenshots"
	sdcardDir      = "sdcard"
	firmwareDir    = "firmware"
)

var errNotInitialized = errors.New("storage: data directory name not set")

var dataDirName string

// Init sets the name of the data directory. Must be called before any
// other function in this package.
func Init(name string) {
	dataDirName = name
}

// dataHome returns the per-user parent directory for application data:
// ~/Library/Application Support, %APPDATA%, or $XDG_DATA_HOME falling back
// to ~/.local/share.
func dataHome() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("APPDATA environment variable not set")
	}

	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// GetBaseDir returns the data directory.
func GetBaseDir() (string, error) {
	if dataDirName == "" {
		return "", errNotInitialized
	}
	home, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDirName), nil
}

func dataPath(elem ...string) (string, error) {
	base, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{base}, elem...)...), nil
}

// EnsureDirectories creates the data directory and its fixed subdirectories.
func EnsureDirectories() error {
	for _, sub := range []string{"", screenshotsDir, sdcardDir, firmwareDir} {
		dir, err := dataPath(sub)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigPath returns the path of config.json.
func GetConfigPath() (string, error) {
	return dataPath(configFile)
}

// GetScreenshotDir returns the directory screenshots are saved in.
func GetScreenshotDir() (string, error) {
	return dataPath(screenshotsDir)
}

// GetFirmwareDir returns the directory relative firmware paths resolve in.
func GetFirmwareDir() (string, error) {
	return dataPath(firmwareDir)
}

// ResolveSDCardDir maps machine.sdcardDir to a directory. Absolute paths are
// kept; relative ones are taken from the data directory, so the default
// "sdcard" is <base>/sdcard.
func ResolveSDCardDir(dir string) (string, error) {
	if dir == "" {
		dir = sdcardDir
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	return dataPath(dir)
}

// ResolveFirmwarePath maps machine.firmware to a file. Empty stays empty
// (the machine's built-in image); relative paths are taken from the
// firmware directory.
func ResolveFirmwarePath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	return dataPath(firmwareDir, path)
}

// AtomicWriteJSON writes data as indented JSON to path. The bytes go to a
// temporary file in the same directory that is synced and then renamed over
// path, so readers see either the old or the new file.
func AtomicWriteJSON(path string, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(jsonData)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
