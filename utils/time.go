package utils

import "time"

// UTCNow returns the current time normalized to UTC. All persisted and
// compared timestamps in the application go through this.
func UTCNow() time.Time {
	return time.Now().UTC()
}
