package gifdecoder

// Test fixtures: an LZW encoder producing GIF-flavoured code streams, used
// to build inputs for the decoder.

const (
	encEOF   = -1
	encBITS  = 12
	encHSIZE = 5003 // 80% occupancy
)

var masks = []int{
	0x0000, 0x0001, 0x0003, 0x0007, 0x000F, 0x001F,
	0x003F, 0x007F, 0x00FF, 0x01FF, 0x03FF, 0x07FF,
	0x0FFF, 0x1FFF, 0x3FFF, 0x7FFF, 0xFFFF,
}

// byteArray is a growing byte buffer made of fixed size pages
type byteArray struct {
	pages    [][]byte
	page     int
	cursor   int
	pageSize int
}

const defaultPageSize = 4096

func newByteArray() *byteArray {
	ba := &byteArray{
		page:     -1,
		pageSize: defaultPageSize,
	}
	ba.newPage()
	return ba
}

func (ba *byteArray) newPage() {
	ba.page++
	ba.pages = append(ba.pages, make([]byte, ba.pageSize))
	ba.cursor = 0
}

func (ba *byteArray) writeByte(val byte) {
	if ba.cursor >= ba.pageSize {
		ba.newPage()
	}
	ba.pages[ba.page][ba.cursor] = val
	ba.cursor++
}

func (ba *byteArray) writeBytes(data []byte) {
	for _, b := range data {
		ba.writeByte(b)
	}
}

func (ba *byteArray) writeString(s string) {
	ba.writeBytes([]byte(s))
}

// writeShort writes a 16-bit value in little-endian order
func (ba *byteArray) writeShort(value int) {
	ba.writeByte(byte(value & 0xFF))
	ba.writeByte(byte((value >> 8) & 0xFF))
}

func (ba *byteArray) bytes() []byte {
	var out []byte
	for i := 0; i < ba.page; i++ {
		out = append(out, ba.pages[i]...)
	}
	return append(out, ba.pages[ba.page][:ba.cursor]...)
}

// lzwEncoder compresses palette indices
type lzwEncoder struct {
	indices      []byte
	initCodeSize int
	remaining    int
	curPixel     int

	// packets holds every sub-block written, in order
	packets []SubBlock
}

func newLZWEncoder(indices []byte, minCodeSize int) *lzwEncoder {
	if minCodeSize < 2 {
		minCodeSize = 2
	}
	return &lzwEncoder{
		indices:      indices,
		initCodeSize: minCodeSize,
	}
}

// encode writes the minimum code size, the sub-blocks and the terminator
func (enc *lzwEncoder) encode(out *byteArray) {
	out.writeByte(byte(enc.initCodeSize))
	enc.remaining = len(enc.indices)
	enc.curPixel = 0
	enc.packets = nil
	enc.compress(enc.initCodeSize+1, out)
	out.writeByte(0)
}

// imageData returns the compressed stream as parsed image data
func (enc *lzwEncoder) imageData() ImageData {
	enc.encode(newByteArray())
	return ImageData{MinCodeSize: byte(enc.initCodeSize), SubBlocks: enc.packets}
}

func (enc *lzwEncoder) nextPixel() int {
	if enc.remaining == 0 {
		return encEOF
	}
	enc.remaining--
	pix := enc.indices[enc.curPixel]
	enc.curPixel++
	return int(pix) & 0xff
}

func (enc *lzwEncoder) compress(initBits int, out *byteArray) {
	var (
		fcode    int
		c        int
		ent      int
		disp     int
		hshift   int
		hsizeReg int

		gInitBits int
		clearCode int
		eofCode   int
		freeEnt   int
		clearFlg  bool
		nBits     int
		maxcode   int

		curAccum int
		curBits  int
		aCount   int

		accum   [256]byte
		htab    [encHSIZE]int
		codetab [encHSIZE]int
	)

	gInitBits = initBits
	clearFlg = false
	nBits = gInitBits
	maxcode = maxCode(nBits)

	clearCode = 1 << (initBits - 1)
	eofCode = clearCode + 1
	freeEnt = clearCode + 2

	ent = enc.nextPixel()

	hshift = 0
	for fcode = encHSIZE; fcode < 65536; fcode *= 2 {
		hshift++
	}
	hshift = 8 - hshift

	hsizeReg = encHSIZE
	clHash := func(hsize int) {
		for i := 0; i < hsize; i++ {
			htab[i] = -1
		}
	}
	clHash(hsizeReg)

	flushChar := func() {
		if aCount > 0 {
			out.writeByte(byte(aCount))
			out.writeBytes(accum[:aCount])
			enc.packets = append(enc.packets, SubBlock(append([]byte(nil), accum[:aCount]...)))
			aCount = 0
		}
	}

	charOut := func(c byte) {
		accum[aCount] = c
		aCount++
		if aCount >= 254 {
			flushChar()
		}
	}

	output := func(code int) {
		curAccum &= masks[curBits]

		if curBits > 0 {
			curAccum |= (code << curBits)
		} else {
			curAccum = code
		}

		curBits += nBits

		for curBits >= 8 {
			charOut(byte(curAccum & 0xff))
			curAccum >>= 8
			curBits -= 8
		}

		// widen once the next entry no longer fits, or go back to the
		// initial width after a clear
		if freeEnt > maxcode || clearFlg {
			if clearFlg {
				nBits = gInitBits
				maxcode = maxCode(nBits)
				clearFlg = false
			} else {
				nBits++
				if nBits == encBITS {
					maxcode = 1 << encBITS
				} else {
					maxcode = maxCode(nBits)
				}
			}
		}

		if code == eofCode {
			for curBits > 0 {
				charOut(byte(curAccum & 0xff))
				curAccum >>= 8
				curBits -= 8
			}
			flushChar()
		}
	}

	clBlock := func() {
		clHash(encHSIZE)
		freeEnt = clearCode + 2
		clearFlg = true
		output(clearCode)
	}

	output(clearCode)

	if ent == encEOF {
		output(eofCode)
		return
	}

outerLoop:
	for {
		c = enc.nextPixel()
		if c == encEOF {
			break
		}

		fcode = (c << encBITS) + ent
		i := (c << hshift) ^ ent // xor hashing

		if htab[i] == fcode {
			ent = codetab[i]
			continue
		} else if htab[i] >= 0 { // non-empty slot
			disp = hsizeReg - i // secondary hash (after G. Knott)
			if i == 0 {
				disp = 1
			}

			for {
				i -= disp
				if i < 0 {
					i += hsizeReg
				}

				if htab[i] == fcode {
					ent = codetab[i]
					continue outerLoop
				}

				if htab[i] < 0 {
					break
				}
			}
		}

		output(ent)
		ent = c

		if freeEnt < (1 << encBITS) {
			codetab[i] = freeEnt
			freeEnt++
			htab[i] = fcode
		} else {
			clBlock()
		}
	}

	output(ent)
	output(eofCode)
}

func maxCode(nBits int) int {
	return (1 << nBits) - 1
}

// lzwImageData is a shorthand for newLZWEncoder(indices, minCodeSize).imageData()
func lzwImageData(indices []byte, minCodeSize int) ImageData {
	return newLZWEncoder(indices, minCodeSize).imageData()
}
