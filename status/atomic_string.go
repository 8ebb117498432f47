package status

import (
	"sync/atomic"
)

// MaxLabelLen bounds stored labels; a match UUID fits exactly
const MaxLabelLen = 36

// AtomicString is a lock-free string cell, zero value is the empty string
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, truncated to MaxLabelLen bytes
func (s *AtomicString) Store(val string) {
	if len(val) > MaxLabelLen {
		val = val[:MaxLabelLen]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
