package status

import (
	"sync/atomic"
)

// MaxStringLen is the maximum length for atomic strings; long enough for a
// one-line status message in the UI footer.
const MaxStringLen = 96

// AtomicString provides atomic string access with a fixed max length.
// Zero value is ready to use and represents the empty string.
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the string value, truncating to MaxStringLen.
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

// Load returns the current string value.
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
