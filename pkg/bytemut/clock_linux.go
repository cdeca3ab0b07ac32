package bytemut

import "golang.org/x/sys/unix"

const clockID = unix.CLOCK_MONOTONIC_RAW
