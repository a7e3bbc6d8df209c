//go:build linux || darwin

package cmd

import (
	"golang.org/x/sys/unix"
)

// terminalWidth returns the column count of the terminal behind fd.
func terminalWidth(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return defaultTermWidth
	}
	return int(ws.Col)
}
