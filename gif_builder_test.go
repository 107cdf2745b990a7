package gifdecoder

// gifBuilder assembles GIF89a byte streams block by block for tests.
type gifBuilder struct {
	out *byteArray
}

func newGIFBuilder() *gifBuilder {
	return &gifBuilder{out: newByteArray()}
}

func (gb *gifBuilder) bytes() []byte {
	return gb.out.bytes()
}

// header writes the GIF file header
func (gb *gifBuilder) header() *gifBuilder {
	gb.out.writeString("GIF89a")
	return gb
}

// lsd writes the logical screen descriptor. palette, when non-nil, becomes
// the global color table and must hold a power of two entries.
func (gb *gifBuilder) lsd(width, height int, palette []Color) *gifBuilder {
	gb.out.writeShort(width)
	gb.out.writeShort(height)

	packed := 0x70 // color resolution = 8
	if palette != nil {
		packed |= 0x80 | palSize(len(palette))
	}
	gb.out.writeByte(byte(packed))

	gb.out.writeByte(0) // background color index
	gb.out.writeByte(0) // pixel aspect ratio
	gb.palette(palette)
	return gb
}

// palette writes color table entries
func (gb *gifBuilder) palette(colors []Color) *gifBuilder {
	for _, c := range colors {
		gb.out.writeByte(c.R)
		gb.out.writeByte(c.G)
		gb.out.writeByte(c.B)
	}
	return gb
}

// netscapeExt writes the NETSCAPE2.0 application extension with a loop count
func (gb *gifBuilder) netscapeExt(repeat int) *gifBuilder {
	gb.out.writeByte(0x21)            // extension introducer
	gb.out.writeByte(0xff)            // app extension label
	gb.out.writeByte(11)              // block size
	gb.out.writeString("NETSCAPE2.0") // app id + auth code
	gb.out.writeByte(3)               // sub-block size
	gb.out.writeByte(1)               // loop sub-block id
	gb.out.writeShort(repeat)         // loop count (0 = forever)
	gb.out.writeByte(0)               // block terminator
	return gb
}

// appExt writes an application extension with an arbitrary identifier
func (gb *gifBuilder) appExt(id string, data ...[]byte) *gifBuilder {
	gb.out.writeByte(0x21)
	gb.out.writeByte(0xff)
	gb.out.writeByte(byte(len(id)))
	gb.out.writeString(id)
	gb.subBlocks(data...)
	return gb
}

// graphicCtrlExt writes a graphic control extension
func (gb *gifBuilder) graphicCtrlExt(dispose int, transparent int, delay int) *gifBuilder {
	gb.out.writeByte(0x21) // extension introducer
	gb.out.writeByte(0xf9) // GCE label
	gb.out.writeByte(4)    // data block size

	transp := 0
	transIndex := 0
	if transparent >= 0 {
		transp = 1
		transIndex = transparent
	}

	gb.out.writeByte(byte(
		0 | // 1:3 reserved
			(dispose&7)<<2 | // 4:6 disposal
			0 | // 7 user input - 0 = none
			transp, // 8 transparency flag
	))

	gb.out.writeShort(delay)            // delay x 1/100 sec
	gb.out.writeByte(byte(transIndex)) // transparent color index
	gb.out.writeByte(0)                // block terminator
	return gb
}

// imageDesc writes an image descriptor, followed by the local color table
// when local is non-nil
func (gb *gifBuilder) imageDesc(left, top, width, height int, local []Color) *gifBuilder {
	gb.out.writeByte(0x2c) // image separator
	gb.out.writeShort(left)
	gb.out.writeShort(top)
	gb.out.writeShort(width)
	gb.out.writeShort(height)

	if local == nil {
		gb.out.writeByte(0)
	} else {
		gb.out.writeByte(byte(
			0x80 | // 1 local color table 1=yes
				0 | // 2 interlace - 0=no
				0 | // 3 sorted - 0=no
				0 | // 4-5 reserved
				palSize(len(local)), // 6-8 size of color table
		))
	}
	gb.palette(local)
	return gb
}

// pixels LZW-encodes indices and writes the image data
func (gb *gifBuilder) pixels(indices []byte, minCodeSize int) *gifBuilder {
	newLZWEncoder(indices, minCodeSize).encode(gb.out)
	return gb
}

// image writes a complete image: descriptor, optional local table and data
func (gb *gifBuilder) image(width, height int, local []Color, indices []byte, minCodeSize int) *gifBuilder {
	return gb.imageDesc(0, 0, width, height, local).pixels(indices, minCodeSize)
}

// comment writes a comment extension
func (gb *gifBuilder) comment(text string) *gifBuilder {
	gb.out.writeByte(0x21)
	gb.out.writeByte(0xfe)
	gb.subBlocks([]byte(text))
	return gb
}

// plainText writes a plain text extension with a 12 byte grid header
func (gb *gifBuilder) plainText(text string) *gifBuilder {
	gb.out.writeByte(0x21)
	gb.out.writeByte(0x01)
	gb.out.writeByte(12)
	gb.out.writeBytes(make([]byte, 12))
	gb.subBlocks([]byte(text))
	return gb
}

// subBlocks splits each chunk into 255 byte sub-blocks and writes the
// terminator
func (gb *gifBuilder) subBlocks(chunks ...[]byte) *gifBuilder {
	for _, data := range chunks {
		for len(data) > 0 {
			n := len(data)
			if n > 255 {
				n = 255
			}
			gb.out.writeByte(byte(n))
			gb.out.writeBytes(data[:n])
			data = data[n:]
		}
	}
	gb.out.writeByte(0)
	return gb
}

// raw writes bytes verbatim
func (gb *gifBuilder) raw(b ...byte) *gifBuilder {
	gb.out.writeBytes(b)
	return gb
}

// trailer adds the final trailer to the GIF stream
func (gb *gifBuilder) trailer() *gifBuilder {
	gb.out.writeByte(0x3b)
	return gb
}

// palSize returns the 3-bit size exponent for a table of n entries
func palSize(n int) int {
	size := 0
	for 1<<(size+1) < n {
		size++
	}
	return size
}
