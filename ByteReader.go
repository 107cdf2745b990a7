package gifdecoder

import "encoding/binary"

// byteReader is a cursor over the complete input. Parsers save and restore
// pos to try alternatives at the same offset.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{data: data}
}

func (r *byteReader) remaining() int {
	return len(r.data) - r.pos
}

// peek returns the byte at pos+i without consuming anything.
func (r *byteReader) peek(i int) (byte, bool) {
	if r.pos+i >= len(r.data) {
		return 0, false
	}
	return r.data[r.pos+i], true
}

// hasPrefix reports whether the unread input starts with sig.
func (r *byteReader) hasPrefix(sig ...byte) bool {
	if r.remaining() < len(sig) {
		return false
	}
	for i, b := range sig {
		if r.data[r.pos+i] != b {
			return false
		}
	}
	return true
}

func (r *byteReader) readByte(stage string) (byte, error) {
	if r.pos >= len(r.data) {
		return 0, formatError(stage, r.pos, "unexpected end of data")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) readUint16(stage string) (uint16, error) {
	if r.remaining() < 2 {
		return 0, formatError(stage, r.pos, "unexpected end of data")
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// readN returns the next n bytes. The slice aliases the input.
func (r *byteReader) readN(n int, stage string) ([]byte, error) {
	if r.remaining() < n {
		return nil, formatError(stage, r.pos, "need %d bytes, have %d", n, r.remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) expect(b byte, stage string) error {
	got, err := r.readByte(stage)
	if err != nil {
		return err
	}
	if got != b {
		return formatError(stage, r.pos-1, "expected 0x%.2x, got 0x%.2x", b, got)
	}
	return nil
}
