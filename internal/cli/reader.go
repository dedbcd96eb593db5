package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads lines from an io.Reader without blocking past context
// cancellation. A single goroutine owns the underlying reader.
type LineReader struct {
	lines chan lineResult
	once  sync.Once
	src   *bufio.Scanner
}

type lineResult struct {
	err  error
	text string
}

// NewLineReader creates a line reader over r.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{
		src:   bufio.NewScanner(r),
		lines: make(chan lineResult),
	}
}

func (r *LineReader) start() {
	go func() {
		defer close(r.lines)
		for r.src.Scan() {
			r.lines <- lineResult{text: r.src.Text()}
		}
		if err := r.src.Err(); err != nil {
			r.lines <- lineResult{err: err}
		}
	}()
}

// ReadLine returns the next line with surrounding whitespace removed. It
// returns io.EOF once the input is exhausted.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	r.once.Do(r.start)

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}
