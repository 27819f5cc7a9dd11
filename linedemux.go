package linedemux

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultAvgSuffix is appended to the input name to build the first output
	DefaultAvgSuffix = "_avg.txt"
	// DefaultMaxSuffix is appended to the input name to build the second output
	DefaultMaxSuffix = "_max.txt"
)

// Mode selects how lines are alternated between the two outputs
type Mode int

const (
	// ModeFixed stops as soon as no line is left, so no output gets a spurious write
	ModeFixed Mode = iota
	// ModeCompat reproduces the stream-state loop of the original tool,
	// including its trailing artifact and its silent failures
	ModeCompat
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeCompat:
		return "compat"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options configures Split
type Options struct {
	// Mode is the alternation mode
	Mode Mode
	// AvgSuffix overrides DefaultAvgSuffix when not empty
	AvgSuffix string
	// MaxSuffix overrides DefaultMaxSuffix when not empty
	MaxSuffix string
	// Logger receives debug progress; nil discards everything
	Logger logrus.FieldLogger
}

// Counts is the number of lines written to each output
type Counts struct {
	// Avg is the number of lines written to the avg output
	Avg int
	// Max is the number of lines written to the max output
	Max int
}

// Result describes a finished split
type Result struct {
	// AvgPath is the output receiving lines 0, 2, 4, ...
	AvgPath string
	// MaxPath is the output receiving lines 1, 3, 5, ...
	MaxPath string
	Counts
}

// OutputNames derives the two output file names by appending the suffixes to filename
func OutputNames(filename string, opts Options) (avgPath string, maxPath string) {
	avgSuffix, maxSuffix := opts.AvgSuffix, opts.MaxSuffix
	if avgSuffix == "" {
		avgSuffix = DefaultAvgSuffix
	}
	if maxSuffix == "" {
		maxSuffix = DefaultMaxSuffix
	}
	return filename + avgSuffix, filename + maxSuffix
}

// Split reads filename and distributes its lines alternately to the avg and max outputs.
// Both outputs are created (truncated) before the input is opened, so they
// exist even when the input does not.
// In ModeCompat every failure is swallowed and the returned error is always nil.
func Split(filename string, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	log = log.WithField("mode", opts.Mode.String())

	avgPath, maxPath := OutputNames(filename, opts)
	res := Result{AvgPath: avgPath, MaxPath: maxPath}

	counts, err := split(filename, avgPath, maxPath, opts.Mode, log)
	res.Counts = counts
	if opts.Mode == ModeCompat {
		if err != nil {
			log.WithError(err).Debug("ignoring failure in compat mode")
		}
		return res, nil
	}
	if err != nil {
		return res, err
	}

	log.WithFields(logrus.Fields{
		"input": filename,
		"avg":   counts.Avg,
		"max":   counts.Max,
	}).Debug("split complete")
	return res, nil
}

func split(filename, avgPath, maxPath string, mode Mode, log logrus.FieldLogger) (counts Counts, err error) {
	if avgPath == maxPath && mode != ModeCompat {
		return counts, &OutputError{Path: maxPath, Err: ErrSameOutput}
	}

	avgOut, err := openOutput(avgPath, mode)
	if err != nil {
		return counts, err
	}
	defer closeOutput(avgOut, &err)

	maxOut, err := openOutput(maxPath, mode)
	if err != nil {
		return counts, err
	}
	defer closeOutput(maxOut, &err)

	in, err := os.Open(filename)
	if err != nil {
		if mode == ModeCompat {
			// an unopened stream is never good: the loop writes nothing
			return counts, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		return counts, &InputError{Path: filename, Err: err}
	}
	defer in.Close()
	log.WithField("input", filename).Debug("opened input")

	counts, err = Demux(in, avgOut, maxOut, mode)
	var ie *InputError
	if errors.As(err, &ie) {
		ie.Path = filename
	}
	return counts, err
}

// output is a buffered output file that remembers its path for error reporting
type output struct {
	path string
	f    *os.File
	*bufio.Writer
}

func createOutput(path string) (*output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &OutputError{Path: path, Err: err}
	}
	return &output{path: path, f: f, Writer: bufio.NewWriter(f)}, nil
}

// openOutput creates path. In ModeCompat an output that cannot be created
// silently swallows its writes, like a failed ofstream.
func openOutput(path string, mode Mode) (*output, error) {
	o, err := createOutput(path)
	if err != nil && mode == ModeCompat {
		return &output{path: path, Writer: bufio.NewWriter(io.Discard)}, nil
	}
	return o, err
}

// closeOutput flushes and closes o, keeping the first error seen in *errp
func closeOutput(o *output, errp *error) {
	ferr := o.Flush()
	var cerr error
	if o.f != nil {
		cerr = o.f.Close()
	}
	if *errp != nil {
		return
	}
	if ferr != nil {
		*errp = &OutputError{Path: o.path, Err: ferr}
	} else if cerr != nil {
		*errp = &OutputError{Path: o.path, Err: cerr}
	}
}

// Demux copies lines from r alternately to avgW and maxW, each followed by "\n"
func Demux(r io.Reader, avgW, maxW io.Writer, mode Mode) (Counts, error) {
	switch mode {
	case ModeFixed:
		return demuxFixed(bufio.NewReader(r), avgW, maxW)
	case ModeCompat:
		return demuxCompat(newStream(r), avgW, maxW)
	}
	return Counts{}, fmt.Errorf("unknown mode %v", mode)
}

func demuxFixed(r *bufio.Reader, avgW, maxW io.Writer) (Counts, error) {
	var counts Counts
	for {
		line, ok, err := readLine(r)
		if err != nil || !ok {
			return counts, err
		}
		if err := writeLine(avgW, line); err != nil {
			return counts, err
		}
		counts.Avg++

		line, ok, err = readLine(r)
		if err != nil || !ok {
			return counts, err
		}
		if err := writeLine(maxW, line); err != nil {
			return counts, err
		}
		counts.Max++
	}
}

// readLine returns the next line without its terminator.
// ok is false once the input is exhausted.
func readLine(r *bufio.Reader) (line string, ok bool, err error) {
	line, err = r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, &InputError{Err: err}
	}
	if err == io.EOF && line == "" {
		return "", false, nil
	}
	line = trimEOL(line)
	return line, true, nil
}

func trimEOL(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

func writeLine(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		if o, ok := w.(*output); ok {
			return &OutputError{Path: o.path, Err: err}
		}
		return &OutputError{Err: err}
	}
	return nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
