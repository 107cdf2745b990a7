package gifdecoder

const (
	maxDictSize = 1 << maxCodeWidth // 4096

	minLitWidth = 2
	maxLitWidth = 8

	noCode = -1
)

// lzwDecoder expands one image's code stream into palette indices.
//
// Dictionary entries are stored as (prefix code, last byte) pairs together
// with the first byte and length of the string they expand to, so a code is
// written out back to front without a temporary stack.
type lzwDecoder struct {
	litWidth int
	clear    int
	eoi      int

	width uint // current code width in bits
	next  int  // next unassigned dictionary code

	prefix [maxDictSize]uint16
	suffix [maxDictSize]byte
	first  [maxDictSize]byte
	length [maxDictSize]int

	out []byte
	n   int // indices written so far
}

// newLZWDecoder creates a decoder expecting exactly pixels indices.
func newLZWDecoder(minCodeSize byte, pixels int) (*lzwDecoder, error) {
	litWidth := int(minCodeSize)
	if litWidth < minLitWidth || litWidth > maxLitWidth {
		return nil, lzwError("minimum code size %d out of range [%d,%d]", litWidth, minLitWidth, maxLitWidth)
	}

	d := &lzwDecoder{
		litWidth: litWidth,
		clear:    1 << litWidth,
		eoi:      1<<litWidth + 1,
		out:      make([]byte, pixels),
	}
	for i := 0; i < d.clear; i++ {
		d.suffix[i] = byte(i)
		d.first[i] = byte(i)
		d.length[i] = 1
	}
	d.reset()
	return d, nil
}

// reset drops every dictionary entry above the base literals.
func (d *lzwDecoder) reset() {
	d.width = uint(d.litWidth + 1)
	d.next = d.clear + 2
}

// decode reads codes until End-of-Information.
func (d *lzwDecoder) decode(s *codeStream) ([]byte, error) {
	prev := noCode
	for {
		c, err := s.next(d.width)
		if err == errExhausted {
			return nil, lzwError("truncated stream: no end of information after %d of %d pixels", d.n, len(d.out))
		}
		if err != nil {
			return nil, err
		}
		code := int(c)

		switch {
		case code == d.clear:
			d.reset()
			prev = noCode
			continue

		case code == d.eoi:
			if d.n != len(d.out) {
				return nil, lzwError("not enough image data: got %d of %d pixels", d.n, len(d.out))
			}
			if s.trailing() {
				return nil, lzwError("too much image data after end of information")
			}
			return d.out, nil

		case code < d.next:
			if err := d.emit(code); err != nil {
				return nil, err
			}
			if prev != noCode {
				d.add(prev, d.first[code])
			}

		case code == d.next && prev != noCode:
			// The code being defined is the one just read: prev plus the
			// first byte of prev.
			d.add(prev, d.first[prev])
			if err := d.emit(code); err != nil {
				return nil, err
			}

		default:
			return nil, lzwError("code %d references an unassigned dictionary entry (next is %d)", code, d.next)
		}
		prev = code
	}
}

// add assigns prefix+c to the next free code and widens the code size once
// the next free code no longer fits.
func (d *lzwDecoder) add(prefix int, c byte) {
	if d.next >= maxDictSize {
		// Full until the encoder sends a clear code.
		return
	}
	d.prefix[d.next] = uint16(prefix)
	d.suffix[d.next] = c
	d.first[d.next] = d.first[prefix]
	d.length[d.next] = d.length[prefix] + 1
	d.next++

	if d.next > 1<<d.width-1 && d.width < maxCodeWidth {
		d.width++
	}
}

// emit writes the string for code to the output.
func (d *lzwDecoder) emit(code int) error {
	n := d.length[code]
	if d.n+n > len(d.out) {
		return lzwError("too much image data: more than %d pixels", len(d.out))
	}

	i := d.n + n - 1
	for code >= d.clear {
		d.out[i] = d.suffix[code]
		code = int(d.prefix[code])
		i--
	}
	d.out[i] = byte(code)
	d.n += n
	return nil
}

// decodeLZW expands data into exactly pixels palette indices.
func decodeLZW(data ImageData, pixels int) ([]byte, error) {
	d, err := newLZWDecoder(data.MinCodeSize, pixels)
	if err != nil {
		return nil, err
	}
	return d.decode(newCodeStream(data.SubBlocks))
}
