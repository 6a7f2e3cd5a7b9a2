//go:build (linux || aix || zos || darwin || freebsd || openbsd || netbsd || dragonfly || solaris) && !appengine
// +build linux aix zos darwin freebsd openbsd netbsd dragonfly solaris
// +build !appengine

package term

import "golang.org/x/sys/unix"

func width(fd uintptr) (int, bool) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 0, false
	}
	return int(ws.Col), true
}
