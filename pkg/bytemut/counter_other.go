//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package bytemut

import "time"

var processStart = time.Now()

func monotonicCounter() uint64 {
	return uint64(time.Since(processStart).Nanoseconds()) ^ uint64(processStart.UnixNano())
}
