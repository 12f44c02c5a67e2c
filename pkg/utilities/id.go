package utilities

import (
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewRequestID returns an id for correlating one request across log lines.
func NewRequestID() string {
	return NewKSUID()
}
