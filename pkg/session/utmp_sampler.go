package session

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// UtmpSampler derives session idleness from the login-session table:
// every user-process entry names a terminal line, and the access time
// of that device records the last user interaction.
type UtmpSampler struct {
	utmpPath string
	devDir   string
	now      func() time.Time
	stat     func(string) (os.FileInfo, error)
}

// NewUtmpSampler creates a sampler over the system utmp table.
func NewUtmpSampler() *UtmpSampler {
	return &UtmpSampler{
		utmpPath: "/var/run/utmp",
		devDir:   "/dev",
		now:      time.Now,
		stat:     os.Stat,
	}
}

// Sample returns the minimum idle duration across all user-process
// sessions. ok is false when the table is unreadable or no session
// could be sampled. Entries whose device cannot be inspected are
// skipped; they reduce confidence, not the whole sample.
func (s *UtmpSampler) Sample() (time.Duration, bool) {
	f, err := os.Open(s.utmpPath)
	if err != nil {
		return 0, false
	}
	defer func() { _ = f.Close() }()

	records, err := readRecords(f)
	if err != nil {
		return 0, false
	}

	now := s.now()
	var min time.Duration
	ok := false
	for _, rec := range records {
		if rec.Type != userProcess {
			continue
		}
		line := cString(rec.Line[:])
		if line == "" {
			continue
		}
		info, err := s.stat(filepath.Join(s.devDir, line))
		if err != nil {
			// Stale entry or inaccessible device.
			continue
		}
		idle := now.Sub(accessTime(info))
		if idle < 0 {
			idle = 0
		}
		if !ok || idle < min {
			min, ok = idle, true
		}
	}
	return min, ok
}

// accessTime extracts atime from a stat result.
func accessTime(info os.FileInfo) time.Time {
	if st, casts := info.Sys().(*syscall.Stat_t); casts {
		return time.Unix(st.Atim.Sec, st.Atim.Nsec)
	}
	return info.ModTime()
}
