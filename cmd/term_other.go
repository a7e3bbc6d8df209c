//go:build !linux && !darwin

package cmd

func terminalWidth(uintptr) int {
	return defaultTermWidth
}
