//go:build linux || solaris

package term

import "golang.org/x/sys/unix"

// ioctl request numbers for getting/setting termios differ between the
// Linux/Solaris ioctl ABI and the BSD one; kept in separate
// build-constrained files so each platform only sees its own constants.
const (
	ioctlGetAttr = unix.TCGETS
	ioctlSetAttr = unix.TCSETS
)
