package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock stamps snapshots for a single session. The site ID lets viewers tell
// a restarted host apart from the one they were following.
type Clock struct {
	site    string
	counter uint64
}

func NewClock() *Clock {
	return &Clock{site: uuid.NewString()}
}

func (c *Clock) Site() string { return c.site }

func (c *Clock) Next() uint64 {
	return atomic.AddUint64(&c.counter, 1)
}
