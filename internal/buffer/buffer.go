// Package buffer provides the line store a document is edited in.
package buffer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrReadOnly     = errors.New("buffer is read-only")
	ErrRangeInvalid = errors.New("invalid range")
)

// Buffer stores text as lines. Line endings are normalized to LF on input.
// All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	lines    []string
	eol      bool // text ended with a newline
	readOnly bool
	revision uint64
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithReadOnly makes the buffer refuse edits.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// New creates a buffer holding a single empty line.
func New(opts ...Option) *Buffer {
	b := &Buffer{lines: []string{""}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.lines, b.eol = split(s)
	return b
}

// NewFromReader creates a buffer from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

func split(s string) ([]string, bool) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	eol := strings.HasSuffix(s, "\n")
	if eol {
		s = s[:len(s)-1]
	}
	return strings.Split(s, "\n"), eol
}

// Text returns the full content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := strings.Join(b.lines, "\n")
	if b.eol {
		s += "\n"
	}
	return s
}

// Bytes returns the full content as bytes.
func (b *Buffer) Bytes() []byte {
	return []byte(b.Text())
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of row without its line ending, or "" when
// row is out of range.
func (b *Buffer) LineText(row int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return b.lines[row]
}

// LineLen returns the byte length of row.
func (b *Buffer) LineLen(row int) int {
	return len(b.LineText(row))
}

// Lines returns a copy of rows [start, end), clamped to the buffer.
func (b *Buffer) Lines(start, end int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if start < 0 {
		start = 0
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	if start >= end {
		return nil
	}
	out := make([]string, end-start)
	copy(out, b.lines[start:end])
	return out
}

// SetLines replaces rows [start, end) with lines.
func (b *Buffer) SetLines(start, end int, lines []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if start < 0 || end < start || end > len(b.lines) {
		return fmt.Errorf("%w: [%d, %d) of %d lines", ErrRangeInvalid, start, end, len(b.lines))
	}

	next := make([]string, 0, len(b.lines)-(end-start)+len(lines))
	next = append(next, b.lines[:start]...)
	next = append(next, lines...)
	next = append(next, b.lines[end:]...)
	if len(next) == 0 {
		next = []string{""}
	}
	b.lines = next
	b.revision++
	return nil
}

// SetText replaces the whole content.
func (b *Buffer) SetText(s string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readOnly {
		return ErrReadOnly
	}
	b.lines, b.eol = split(s)
	b.revision++
	return nil
}

// IsModifiable reports whether edits are accepted.
func (b *Buffer) IsModifiable() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.readOnly
}

// SetReadOnly changes whether edits are accepted.
func (b *Buffer) SetReadOnly(readOnly bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readOnly = readOnly
}

// Revision increases on every successful edit.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}
