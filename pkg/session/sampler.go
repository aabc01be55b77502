// Package session samples how long the machine's login sessions have
// been idle.
package session

import (
	"time"

	"github.com/idlewatcher/idlewatcher/pkg/interfaces"
)

// Sampler reads the utmp table first and falls back to logind when the
// table yields nothing.
type Sampler struct {
	primary  interfaces.SessionSampler
	fallback interfaces.SessionSampler
}

// New creates the standard sampler chain: utmp, then logind.
func New() *Sampler {
	return &Sampler{
		primary:  NewUtmpSampler(),
		fallback: NewLogindSampler(),
	}
}

// Sample returns the first available sample from the chain. ok is false
// only when every source is unavailable.
func (s *Sampler) Sample() (time.Duration, bool) {
	if min, ok := s.primary.Sample(); ok {
		return min, true
	}
	if s.fallback != nil {
		return s.fallback.Sample()
	}
	return 0, false
}
