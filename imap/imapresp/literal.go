package imapresp

import (
	"fmt"
	"io"

	"crawshaw.io/iox"
)

// literalFile wraps an iox.BufferFile holding a LITERAL token's bytes
// once they have been spilled out of the Go heap (see
// Scanner.Filer / Scanner.LiteralSpillThreshold). It is the domain
// stack's answer to spec.md section 4.2's "the lexer copies exactly n
// bytes as the token value regardless of their content" for the
// large-literal case: a FETCH BODY[] response for a multi-megabyte
// message should not force a multi-megabyte heap allocation, the same
// problem the teacher's Scanner.Literal field (imap/imapparser) solves
// for inbound APPEND data.
type literalFile struct {
	buf  *iox.BufferFile
	size int64
}

// Size reports the literal's length in bytes.
func (l *literalFile) Size() int64 { return l.size }

// Reader returns a fresh reader over the literal's bytes, seeked to
// the start.
func (l *literalFile) Reader() (io.Reader, error) {
	if _, err := l.buf.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("imapresp: seek literal: %w", err)
	}
	return l.buf, nil
}

// Bytes materializes the literal's full contents in memory. Large
// spilled literals should generally be streamed via Reader instead.
func (l *literalFile) Bytes() ([]byte, error) {
	r, err := l.Reader()
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func (l *literalFile) Close() error {
	return l.buf.Truncate(0)
}
