// Package wayland maintains the link to the compositor's idle
// notification source.
package wayland

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrNoDisplay indicates that no Wayland display could be located.
var ErrNoDisplay = errors.New("no display found")

// maxProbeIndex bounds the wayland-N socket probe.
const maxProbeIndex = 9

// ResolveDisplay returns the Wayland display to connect to: the
// WAYLAND_DISPLAY environment variable when set, otherwise the first of
// wayland-1..wayland-9 with a socket in the user's runtime directory.
// The result is passed to the connect call directly; the process
// environment is never modified.
func ResolveDisplay() (string, error) {
	return resolveDisplay(os.Getenv, os.Stat)
}

func resolveDisplay(getenv func(string) string, stat func(string) (os.FileInfo, error)) (string, error) {
	if display := getenv("WAYLAND_DISPLAY"); display != "" {
		return display, nil
	}

	runDir := getenv("XDG_RUNTIME_DIR")
	if runDir == "" {
		runDir = filepath.Join("/run/user", strconv.Itoa(os.Getuid()))
	}

	for i := 1; i <= maxProbeIndex; i++ {
		name := fmt.Sprintf("wayland-%d", i)
		if _, err := stat(filepath.Join(runDir, name)); err == nil {
			return name, nil
		}
	}

	return "", ErrNoDisplay
}
