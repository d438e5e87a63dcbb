// Package source feeds the tokenizer one byte at a time and tracks where
// that byte sits in the input.
package source

import (
	"bufio"
	"errors"
	"io"
)

type Reader struct {
	r *bufio.Reader

	cur       byte
	redeliver bool

	row int // 0-indexed
	col int // -1 until the first byte of a line is read
}

func New(r io.Reader) *Reader {
	s := &Reader{}
	s.Reset(r)
	return s
}

// Reset points the reader at a new input and rewinds the position.
func (s *Reader) Reset(r io.Reader) {
	s.r = bufio.NewReader(r)
	s.cur = 0
	s.redeliver = false
	s.row = 0
	s.col = -1
}

// Next returns the next byte. ok is false once the input is exhausted.
func (s *Reader) Next() (b byte, ok bool, err error) {
	if s.redeliver {
		s.redeliver = false
		return s.cur, true, nil
	}
	b, err = s.r.ReadByte()
	if errors.Is(err, io.EOF) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	s.cur = b
	if b == '\n' {
		s.row++
		s.col = -1
	} else {
		s.col++
	}
	return b, true, nil
}

// Redeliver makes the following Next return the current byte again,
// without moving the position.
func (s *Reader) Redeliver() {
	s.redeliver = true
}

func (s *Reader) Row() int { return s.row }
func (s *Reader) Col() int { return s.col }
