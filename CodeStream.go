package gifdecoder

import (
	"errors"
	"fmt"
)

const (
	minCodeWidth = 2
	maxCodeWidth = 12
)

// errExhausted means fewer bits remain than the requested code width.
var errExhausted = errors.New("gif: code stream exhausted")

// codeStream presents an image's sub-blocks as one continuous bit sequence
// and serves variable-width codes, least significant bit first.
type codeStream struct {
	blocks []SubBlock
	block  int // index of the sub-block being consumed
	pos    int // next unread byte within blocks[block]

	acc   uint64 // pending bits, oldest in the low bits
	nbits uint
}

func newCodeStream(blocks []SubBlock) *codeStream {
	return &codeStream{blocks: blocks}
}

// nextByte pulls the next payload byte, crossing sub-block boundaries.
func (s *codeStream) nextByte() (byte, bool) {
	for s.block < len(s.blocks) {
		if s.pos < len(s.blocks[s.block]) {
			b := s.blocks[s.block][s.pos]
			s.pos++
			return b, true
		}
		s.block++
		s.pos = 0
	}
	return 0, false
}

// next returns the next width-bit code.
func (s *codeStream) next(width uint) (uint16, error) {
	if width < minCodeWidth || width > maxCodeWidth {
		panic(fmt.Sprintf("gif: invalid code width %d", width))
	}

	for s.nbits < width {
		b, ok := s.nextByte()
		if !ok {
			return 0, errExhausted
		}
		s.acc |= uint64(b) << s.nbits
		s.nbits += 8
	}

	code := uint16(s.acc & (1<<width - 1))
	s.acc >>= width
	s.nbits -= width
	return code, nil
}

// trailing reports whether sub-blocks beyond the one currently being read
// still hold data.
func (s *codeStream) trailing() bool {
	for i := s.block + 1; i < len(s.blocks); i++ {
		if len(s.blocks[i]) > 0 {
			return true
		}
	}
	return false
}
