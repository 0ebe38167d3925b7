package media

import "time"

var ComputeLevel = computeLevel

// SetInterval shortens the sampling loop so tests don't wait on the
// per-frame ticker.
func (m *LevelMonitor) SetInterval(d time.Duration) {
	m.interval = d
}
