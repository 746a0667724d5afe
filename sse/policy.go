package sse

import (
	"fmt"
	"strings"
)

// DropPolicy decides what a full subscriber queue loses on publish.
type DropPolicy int

const (
	// DropOldest evicts the oldest queued value to make room for the new
	// one, so a lagging subscriber always holds the most recent values.
	DropOldest DropPolicy = iota
	// DropNewest discards the new value for that subscriber.
	DropNewest
)

func (p DropPolicy) String() string {
	switch p {
	case DropOldest:
		return "drop_oldest"
	case DropNewest:
		return "drop_newest"
	default:
		return fmt.Sprintf("DropPolicy(%d)", int(p))
	}
}

// ParseDropPolicy accepts "drop_oldest", "drop-oldest", "oldest" and the
// newest equivalents, case-insensitively.
func ParseDropPolicy(s string) (DropPolicy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "drop_oldest", "oldest":
		return DropOldest, nil
	case "drop_newest", "newest":
		return DropNewest, nil
	default:
		return DropOldest, fmt.Errorf("unknown drop policy %q", s)
	}
}
