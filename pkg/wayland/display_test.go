package wayland

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDisplayFromEnvironment(t *testing.T) {
	stats := 0
	getenv := func(key string) string {
		if key == "WAYLAND_DISPLAY" {
			return "wayland-0"
		}
		return ""
	}
	stat := func(string) (os.FileInfo, error) {
		stats++
		return nil, os.ErrNotExist
	}

	name, err := resolveDisplay(getenv, stat)
	if err != nil {
		t.Fatalf("resolveDisplay() error = %v", err)
	}
	if name != "wayland-0" {
		t.Errorf("resolveDisplay() = %q, want wayland-0", name)
	}
	if stats != 0 {
		t.Errorf("probe touched the filesystem %d times despite WAYLAND_DISPLAY", stats)
	}
}

func TestResolveDisplayProbe(t *testing.T) {
	tests := []struct {
		name    string
		sockets []string
		want    string
		wantErr error
	}{
		{
			name:    "First existing index wins",
			sockets: []string{"wayland-3", "wayland-5"},
			want:    "wayland-3",
		},
		{
			name:    "Highest probed index",
			sockets: []string{"wayland-9"},
			want:    "wayland-9",
		},
		{
			name:    "Beyond probe range is invisible",
			sockets: []string{"wayland-10"},
			wantErr: ErrNoDisplay,
		},
		{
			name:    "No sockets",
			sockets: nil,
			wantErr: ErrNoDisplay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runDir := t.TempDir()
			for _, sock := range tt.sockets {
				if err := os.WriteFile(filepath.Join(runDir, sock), nil, 0o600); err != nil {
					t.Fatalf("create socket stand-in: %v", err)
				}
			}

			getenv := func(key string) string {
				if key == "XDG_RUNTIME_DIR" {
					return runDir
				}
				return ""
			}

			name, err := resolveDisplay(getenv, os.Stat)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolveDisplay() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveDisplay() error = %v", err)
			}
			if name != tt.want {
				t.Errorf("resolveDisplay() = %q, want %q", name, tt.want)
			}
		})
	}
}
