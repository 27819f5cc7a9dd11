package linedemux

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bitfield/script"
)

// Merge interleaves the lines of avgPath and maxPath, starting with avgPath,
// and writes them to w. It undoes a fixed-mode Split and returns the number
// of lines written.
func Merge(avgPath, maxPath string, w io.Writer) (int, error) {
	avgLines, err := script.File(avgPath).Slice()
	if err != nil {
		return 0, &InputError{Path: avgPath, Err: err}
	}
	maxLines, err := script.File(maxPath).Slice()
	if err != nil {
		return 0, &InputError{Path: maxPath, Err: err}
	}
	if len(maxLines) > len(avgLines) || len(avgLines) > len(maxLines)+1 {
		return 0, fmt.Errorf("Error merging %s and %s: %d and %d lines do not alternate", avgPath, maxPath, len(avgLines), len(maxLines))
	}

	bw := bufio.NewWriter(w)
	n := 0
	for i := range avgLines {
		if err := writeLine(bw, avgLines[i]); err != nil {
			return n, err
		}
		n++
		if i < len(maxLines) {
			if err := writeLine(bw, maxLines[i]); err != nil {
				return n, err
			}
			n++
		}
	}
	if err := bw.Flush(); err != nil {
		return n, &OutputError{Err: err}
	}
	return n, nil
}
