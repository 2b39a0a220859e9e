package app

import (
	"sync"
	"time"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var codeEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// CodeGenerator hands out six-character join codes from a seconds counter.
// Two calls within the same second still get distinct codes because the counter never repeats.
type CodeGenerator struct {
	mu    sync.Mutex
	clock func() time.Time
	last  int64
}

// NewCodeGenerator uses clock, or time.Now when clock is nil.
func NewCodeGenerator(clock func() time.Time) *CodeGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &CodeGenerator{clock: clock, last: -1}
}

// Next returns the next code.
func (c *CodeGenerator) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := int64(c.clock().Sub(codeEpoch) / time.Second)
	if n <= c.last {
		n = c.last + 1
	}
	c.last = n
	return encodeCode(n)
}

// encodeCode writes n in base 36, least significant digit first.
func encodeCode(n int64) string {
	if n < 0 {
		n = -n
	}
	buf := make([]byte, codeLength)
	base := int64(len(codeAlphabet))
	for i := range buf {
		buf[i] = codeAlphabet[n%base]
		n /= base
	}
	return string(buf)
}
