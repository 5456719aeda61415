package logger

import (
	"errors"
	"io"
	"sync"
)

// sink writes whole log lines to stdout and, when configured, the bot log file.
// Writes are synchronous so a crash never loses a line that was already logged.
type sink struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	closed bool
}

func newSink(out io.Writer, file io.WriteCloser) *sink {
	s := &sink{out: out}
	if file != nil {
		s.out = io.MultiWriter(out, file)
		s.closer = file
	}
	return s
}

var errSinkClosed = errors.New("logger: sink closed")

func (s *sink) Write(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSinkClosed
	}
	_, err := s.out.Write(line)
	return err
}

// Close releases the log file. Later writes fail with errSinkClosed.
func (s *sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
