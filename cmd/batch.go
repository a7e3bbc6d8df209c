package cmd

import (
	"bufio"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// forEachLine feeds fn every line of r until fn returns false.
func forEachLine(r io.Reader, fn func(line string) bool) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !fn(scanner.Text()) {
			break
		}
	}
	return scanner.Err()
}

func appendLineErr(errs error, lineNo int, err error) error {
	return multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
}
