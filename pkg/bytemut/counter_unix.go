//go:build linux || darwin || freebsd || netbsd || openbsd

package bytemut

import (
	"time"

	"golang.org/x/sys/unix"
)

// monotonicCounter reads the raw monotonic clock. It only feeds seeding, so
// the fallback on failure is wall time.
func monotonicCounter() uint64 {
	var ts unix.Timespec

	err := unix.ClockGettime(clockID, &ts)
	if err != nil {
		return uint64(time.Now().UnixNano())
	}

	return uint64(ts.Nano())
}
