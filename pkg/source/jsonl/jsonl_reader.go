// SPDX-License-Identifier: Apache-2.0

package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/source"
)

// Reader reads one JSON record per line. Blank lines are ignored.
type Reader struct {
	logger  loglib.Logger
	closer  io.Closer
	scanner *bufio.Scanner
	parser  recordParser
	line    int
}

type recordParser interface {
	Parse(data []byte) (*search.Record, error)
}

type Option func(*Reader)

const maxLineBytes = 16 * 1024 * 1024

// NewReader opens the JSONL file on input.
func NewReader(path string, parser recordParser, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening jsonl source: %w", err)
	}
	r := newReader(f, parser, opts...)
	r.closer = f
	r.logger.Info("reading jsonl source", loglib.Fields{"path": path})
	return r, nil
}

func newReader(rd io.Reader, parser recordParser, opts ...Option) *Reader {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	r := &Reader{
		logger:  loglib.NewNoopLogger(),
		scanner: scanner,
		parser:  parser,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithLogger(l loglib.Logger) Option {
	return func(r *Reader) {
		r.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "jsonl_source",
		})
	}
}

func (r *Reader) Next(ctx context.Context) (*search.Record, error) {
	for r.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		record, err := r.parser.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		return record, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", r.line+1, err)
	}
	return nil, io.EOF
}

// Commit is a noop, a file source is read from the start on every run.
func (r *Reader) Commit(context.Context) error {
	return nil
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

var _ source.Reader = (*Reader)(nil)
