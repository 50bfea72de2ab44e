package app

import "time"

const minSweepInterval = time.Second

// sweepInterval checks four times per ttl so a session lives at most 1.25 ttl.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, minSweepInterval)
}
