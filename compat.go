package linedemux

import (
	"bufio"
	"io"
)

// stream models the state flags of a buffered text input stream.
// A stream is good until it sees end of input or a read fails.
type stream struct {
	r    *bufio.Reader
	eof  bool
	fail bool
	// line is the buffer shared by consecutive reads
	line string
}

func newStream(r io.Reader) *stream {
	return &stream{r: bufio.NewReader(r)}
}

func (s *stream) good() bool {
	return !s.eof && !s.fail
}

// getline reads up to the next '\n' into s.line.
// On a stream that is not good it fails without touching s.line.
// On a good stream s.line is cleared first, and extracting nothing marks the stream failed.
func (s *stream) getline() {
	if !s.good() {
		s.fail = true
		return
	}
	s.line = ""
	line, err := s.r.ReadString('\n')
	switch {
	case err == nil:
		s.line = line[:len(line)-1]
	case err == io.EOF:
		s.eof = true
		if line == "" {
			s.fail = true
		}
		s.line = line
	default:
		s.fail = true
		s.line = line
	}
}

// demuxCompat runs the unconditional two-read loop: while the stream is
// good, read into the buffer and write it to avg, then read again and write
// it to max whether or not the second read produced anything.
func demuxCompat(s *stream, avgW, maxW io.Writer) (Counts, error) {
	var (
		counts Counts
		werr   error
	)
	// ofstream failures are sticky and never stop the loop
	write := func(w io.Writer, n *int) {
		if err := writeLine(w, s.line); err != nil {
			if werr == nil {
				werr = err
			}
			return
		}
		*n++
	}
	for s.good() {
		s.getline()
		write(avgW, &counts.Avg)
		s.getline()
		write(maxW, &counts.Max)
	}
	return counts, werr
}
