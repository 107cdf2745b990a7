package gifdecoder

import "errors"

const (
	extensionIntroducer = 0x21
	imageSeparator      = 0x2C
	trailer             = 0x3B
	blockTerminator     = 0x00

	graphicControlLabel = 0xF9
	plainTextLabel      = 0x01
	applicationLabel    = 0xFF
	commentLabel        = 0xFE

	graphicControlSize = 0x04
	applicationIDSize  = 0x0B
)

var netscapeID = []byte("NETSCAPE2.0")

// errNoMatch reports that an alternative does not start at the current
// offset. The cursor is rewound and the next alternative is tried.
var errNoMatch = errors.New("gif: no match")

type blockParser struct {
	r                       *byteReader
	skipUnknownApplications bool
}

// parseBlocks reads blocks until the trailer.
func (p *blockParser) parseBlocks() ([]Block, error) {
	var blocks []Block
	for {
		if p.r.remaining() == 0 {
			return nil, formatError("trailer", p.r.pos, "missing trailer")
		}
		if p.r.hasPrefix(trailer) {
			p.r.pos++
			return blocks, nil
		}

		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if b != nil {
			blocks = append(blocks, b)
		}
	}
}

// parseBlock tries each block kind in priority order; the first that
// matches wins. A nil block with a nil error is a skipped extension.
func (p *blockParser) parseBlock() (Block, error) {
	start := p.r.pos
	alternatives := []func() (Block, error){
		p.imageBlock,
		p.applicationExtension,
		p.commentExtension,
	}
	for _, alt := range alternatives {
		b, err := alt()
		if err == errNoMatch {
			p.r.pos = start
			continue
		}
		return b, err
	}

	c, _ := p.r.peek(0)
	if label, ok := p.r.peek(1); ok && c == extensionIntroducer {
		return nil, formatError("block", start, "unrecognized extension 0x%.2x", label)
	}
	return nil, formatError("block", start, "unrecognized block 0x%.2x", c)
}

// imageBlock parses an optional graphic control extension followed by a
// pixel image or a plain text extension.
func (p *blockParser) imageBlock() (Block, error) {
	var gce *GraphicControlExtension
	if p.r.hasPrefix(extensionIntroducer, graphicControlLabel) {
		g, err := p.graphicControlExtension()
		if err != nil {
			return nil, err
		}
		gce = g
	}

	switch {
	case p.r.hasPrefix(imageSeparator):
		img, err := p.image()
		if err != nil {
			return nil, err
		}
		return &ImageBlock{Control: gce, Content: img}, nil
	case p.r.hasPrefix(extensionIntroducer, plainTextLabel):
		pt, err := p.plainText()
		if err != nil {
			return nil, err
		}
		return &ImageBlock{Control: gce, Content: pt}, nil
	case gce != nil:
		return nil, formatError("image block", p.r.pos, "graphic control extension not followed by an image or plain text")
	default:
		return nil, errNoMatch
	}
}

func (p *blockParser) graphicControlExtension() (*GraphicControlExtension, error) {
	const stage = "graphic control extension"
	p.r.pos += 2 // introducer, label

	var (
		g   GraphicControlExtension
		err error
	)
	if g.BlockSize, err = p.r.readByte(stage); err != nil {
		return nil, err
	}
	if g.BlockSize != graphicControlSize {
		return nil, formatError(stage, p.r.pos-1, "block size %d, want %d", g.BlockSize, graphicControlSize)
	}
	if g.Packed, err = p.r.readByte(stage); err != nil {
		return nil, err
	}
	if g.DelayTime, err = p.r.readUint16(stage); err != nil {
		return nil, err
	}
	if g.TransparentIndex, err = p.r.readByte(stage); err != nil {
		return nil, err
	}
	if err = p.r.expect(blockTerminator, stage); err != nil {
		return nil, err
	}
	return &g, nil
}

func (p *blockParser) image() (*Image, error) {
	const stage = "image descriptor"
	p.r.pos++ // separator

	var (
		d   ImageDescriptor
		err error
	)
	if d.Left, err = p.r.readUint16(stage); err != nil {
		return nil, err
	}
	if d.Top, err = p.r.readUint16(stage); err != nil {
		return nil, err
	}
	if d.Width, err = p.r.readUint16(stage); err != nil {
		return nil, err
	}
	if d.Height, err = p.r.readUint16(stage); err != nil {
		return nil, err
	}
	if d.Packed, err = p.r.readByte(stage); err != nil {
		return nil, err
	}

	img := &Image{Descriptor: d}
	if d.HasLocalTable() {
		img.LocalColorTable, err = readColorTable(p.r, d.TableSize(), "local color table")
		if err != nil {
			return nil, err
		}
	}

	if img.Data.MinCodeSize, err = p.r.readByte("image data"); err != nil {
		return nil, err
	}
	if img.Data.SubBlocks, err = p.subBlocks("image data"); err != nil {
		return nil, err
	}
	return img, nil
}

// plainText skips the text grid header and the text sub-blocks.
func (p *blockParser) plainText() (*PlainText, error) {
	const stage = "plain text extension"
	p.r.pos += 2

	n, err := p.r.readByte(stage)
	if err != nil {
		return nil, err
	}
	if _, err = p.r.readN(int(n), stage); err != nil {
		return nil, err
	}
	if _, err = p.subBlocks(stage); err != nil {
		return nil, err
	}
	return &PlainText{}, nil
}

func (p *blockParser) applicationExtension() (Block, error) {
	const stage = "application extension"
	if !p.r.hasPrefix(extensionIntroducer, applicationLabel) {
		return nil, errNoMatch
	}
	start := p.r.pos
	p.r.pos += 2

	if p.r.hasPrefix(append([]byte{applicationIDSize}, netscapeID...)...) {
		p.r.pos += 1 + len(netscapeID)
		sbs, err := p.subBlocks(stage)
		if err != nil {
			return nil, err
		}
		return &ApplicationExtension{SubBlocks: sbs}, nil
	}

	n, err := p.r.readByte(stage)
	if err != nil {
		return nil, err
	}
	id, err := p.r.readN(int(n), stage)
	if err != nil {
		return nil, err
	}
	if !p.skipUnknownApplications {
		return nil, formatError(stage, start, "unsupported application identifier %q", id)
	}
	if _, err = p.subBlocks(stage); err != nil {
		return nil, err
	}
	return nil, nil
}

func (p *blockParser) commentExtension() (Block, error) {
	if !p.r.hasPrefix(extensionIntroducer, commentLabel) {
		return nil, errNoMatch
	}
	p.r.pos += 2

	sbs, err := p.subBlocks("comment extension")
	if err != nil {
		return nil, err
	}
	return &CommentExtension{SubBlocks: sbs}, nil
}

// subBlocks reads length-prefixed chunks up to and including the zero
// length terminator. An immediate terminator yields no sub-blocks.
func (p *blockParser) subBlocks(stage string) ([]SubBlock, error) {
	var blocks []SubBlock
	for {
		n, err := p.r.readByte(stage)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return blocks, nil
		}
		b, err := p.r.readN(int(n), stage)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, SubBlock(b))
	}
}
