// Package progress carries the user-visible progress log.
package progress

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink receives progress lines. Implementations must be safe for use by
// several bundle workers at once.
type Sink interface {
	Logf(format string, args ...interface{})
}

type discard struct{}

func (discard) Logf(string, ...interface{}) {}

// Discard drops every line.
var Discard Sink = discard{}

// FileSink writes each line to a log file and echoes it to a console
// writer, flushing after every line.
type FileSink struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	echo io.Writer
}

// NewFileSink creates (or truncates) the log file at path. echo may be nil.
func NewFileSink(path string, echo io.Writer) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	return &FileSink{f: f, w: bufio.NewWriter(f), echo: echo}, nil
}

// Logf implements Sink.
func (s *FileSink) Logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.echo != nil {
		io.WriteString(s.echo, line)
	}
	if s.w != nil {
		s.w.WriteString(line)
		s.w.Flush()
	}
}

// Close flushes and closes the log file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	s.w.Flush()
	err := s.f.Close()
	s.f, s.w = nil, nil
	return err
}

// Buffer keeps lines in memory.
type Buffer struct {
	mu    sync.Mutex
	lines []string
}

// Logf implements Sink.
func (b *Buffer) Logf(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// Lines returns a copy of the recorded lines.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Contains reports whether any line contains substr.
func (b *Buffer) Contains(substr string) bool {
	for _, l := range b.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// Prefixed returns a sink that prefixes every line, e.g. with a bundle name.
func Prefixed(s Sink, prefix string) Sink {
	return prefixed{s: s, prefix: prefix}
}

type prefixed struct {
	s      Sink
	prefix string
}

func (p prefixed) Logf(format string, args ...interface{}) {
	p.s.Logf("%s%s", p.prefix, fmt.Sprintf(format, args...))
}
