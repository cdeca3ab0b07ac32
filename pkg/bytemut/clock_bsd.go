//go:build darwin || freebsd || netbsd || openbsd

package bytemut

import "golang.org/x/sys/unix"

const clockID = unix.CLOCK_MONOTONIC
