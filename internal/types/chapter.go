package types

import (
	"fmt"
	"time"
)

// Chapter represents a chapter marker.
type Chapter struct {
	Title    string
	Language string
	Index    int // 1-based, in file order
	Start    time.Duration
	End      time.Duration // 0 when the container does not store it
}

// Duration returns the chapter length, or 0 if End is unknown.
func (c Chapter) Duration() time.Duration {
	if c.End <= c.Start {
		return 0
	}
	return c.End - c.Start
}

func (c Chapter) String() string {
	return fmt.Sprintf("Chapter %d: %s (%s)", c.Index, c.Title, c.Start)
}
