package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WritePrivate writes data to path readable only by the current user. An
// existing file is truncated and its mode tightened, since os.WriteFile keeps
// the permissions of a file it does not create.
func WritePrivate(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := Chmod(path, 0600); err != nil {
		return fmt.Errorf("restricting %s: %w", path, err)
	}
	return nil
}
