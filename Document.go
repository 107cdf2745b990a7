package gifdecoder

import (
	"image/color"
	"time"
)

// Version identifies the GIF revision named in the header.
type Version string

// Version89a is the only revision this package decodes.
const Version89a Version = "89a"

// Document is a fully parsed GIF file. It is never modified after Parse
// returns it.
type Document struct {
	Version          Version
	Screen           LogicalScreenDescriptor
	GlobalColorTable ColorTable // nil when the screen flags declare none
	Blocks           []Block
}

// Images returns the image blocks that carry pixel data, in document order.
func (d *Document) Images() []*ImageBlock {
	var images []*ImageBlock
	for _, b := range d.Blocks {
		if ib, ok := b.(*ImageBlock); ok {
			if _, ok := ib.Content.(*Image); ok {
				images = append(images, ib)
			}
		}
	}
	return images
}

// Netscape returns the first NETSCAPE2.0 application extension, or nil.
func (d *Document) Netscape() *ApplicationExtension {
	for _, b := range d.Blocks {
		if app, ok := b.(*ApplicationExtension); ok {
			return app
		}
	}
	return nil
}

// Comments returns the text of every comment extension in document order.
func (d *Document) Comments() []string {
	var out []string
	for _, b := range d.Blocks {
		if c, ok := b.(*CommentExtension); ok {
			out = append(out, c.Text())
		}
	}
	return out
}

// PixelCount is the sum of width*height over every pixel image.
func (d *Document) PixelCount() int {
	total := 0
	for _, ib := range d.Images() {
		total += ib.Content.(*Image).Descriptor.PixelCount()
	}
	return total
}

// LogicalScreenDescriptor is the 7 bytes following the header.
type LogicalScreenDescriptor struct {
	Width            uint16
	Height           uint16
	Flags            Flags
	BackgroundIndex  byte // only meaningful with a global color table
	PixelAspectRatio byte
}

/*
Flags {
	  7:	GlobalColorTableFlag
	4-6:	ColorResolution (stored value + 1)
	  3:	SortFlag
	0-2:	GlobalColorTableSize exponent
}
*/

// Flags is the packed field of the logical screen descriptor.
type Flags struct {
	Raw byte
}

const (
	flagTableMask      = 0b1000_0000
	flagResolutionMask = 0b0111_0000
	flagSortMask       = 0b0000_1000
	flagSizeMask       = 0b0000_0111
)

// HasGlobalTable reports whether a global color table follows the descriptor.
func (f Flags) HasGlobalTable() bool { return f.Raw&flagTableMask != 0 }

// ColorResolution returns the bits per primary color of the source image, 1-8.
func (f Flags) ColorResolution() int { return int(f.Raw&flagResolutionMask)>>4 + 1 }

// Sorted reports whether the global table is sorted by importance.
func (f Flags) Sorted() bool { return f.Raw&flagSortMask != 0 }

// SizeExponent returns the raw 3-bit table size field.
func (f Flags) SizeExponent() int { return int(f.Raw & flagSizeMask) }

// TableSize returns the number of entries in the global table, 2-256.
func (f Flags) TableSize() int { return tableSize(f.Raw) }

func tableSize(packed byte) int {
	return 1 << (int(packed&flagSizeMask) + 1)
}

// Block is one element of the block sequence: *ImageBlock,
// *ApplicationExtension or *CommentExtension.
type Block interface {
	block()
}

// ImageBlock is an optional graphic control extension followed by either a
// pixel image or a plain text extension.
type ImageBlock struct {
	Control *GraphicControlExtension // nil when absent
	Content ImageContent
}

// ApplicationExtension is the NETSCAPE2.0 application extension, the only
// identifier recognized.
type ApplicationExtension struct {
	SubBlocks []SubBlock
}

// CommentExtension holds free-form comment text.
type CommentExtension struct {
	SubBlocks []SubBlock
}

func (*ImageBlock) block()           {}
func (*ApplicationExtension) block() {}
func (*CommentExtension) block()     {}

// LoopCount decodes the looping sub-block (id 1). A count of 0 means the
// animation repeats forever.
func (a *ApplicationExtension) LoopCount() (int, bool) {
	for _, sb := range a.SubBlocks {
		if len(sb) == 3 && sb[0] == 1 {
			return int(sb[1]) | int(sb[2])<<8, true
		}
	}
	return 0, false
}

// Text joins the comment's sub-blocks.
func (c *CommentExtension) Text() string {
	return string(joinSubBlocks(c.SubBlocks))
}

// ImageContent is the payload of an image block: *Image or *PlainText.
type ImageContent interface {
	imageContent()
}

// Image is a descriptor, an optional local color table and compressed data.
type Image struct {
	Descriptor      ImageDescriptor
	LocalColorTable ColorTable // nil when the descriptor declares none
	Data            ImageData
}

// PlainText marks a plain text extension. Its grid header and text are
// consumed during parsing but not kept.
type PlainText struct{}

func (*Image) imageContent()     {}
func (*PlainText) imageContent() {}

/*
ImageDescriptor.Packed {
	  7:	LocalColorTableFlag
	  6:	InterlaceFlag
	  5:	SortFlag
	3-4:	Reserved
	0-2:	LocalColorTableSize exponent
}
*/

// ImageDescriptor positions an image on the logical screen.
type ImageDescriptor struct {
	Left   uint16
	Top    uint16
	Width  uint16
	Height uint16
	Packed byte
}

// HasLocalTable reports whether a local color table follows the descriptor.
func (d ImageDescriptor) HasLocalTable() bool { return d.Packed&0x80 != 0 }

// Interlaced reports the interlace flag. Rows are returned in stream order.
func (d ImageDescriptor) Interlaced() bool { return d.Packed&0x40 != 0 }

// Sorted reports whether the local table is sorted by importance.
func (d ImageDescriptor) Sorted() bool { return d.Packed&0x20 != 0 }

// TableSize returns the number of entries in the local table, 2-256.
func (d ImageDescriptor) TableSize() int { return tableSize(d.Packed) }

// PixelCount returns width*height.
func (d ImageDescriptor) PixelCount() int { return int(d.Width) * int(d.Height) }

// ImageData is the LZW minimum code size and the compressed sub-block chain.
type ImageData struct {
	MinCodeSize byte
	SubBlocks   []SubBlock
}

// SubBlock is the payload of one length-prefixed chunk, 0-255 bytes.
type SubBlock []byte

func joinSubBlocks(blocks []SubBlock) []byte {
	n := 0
	for _, sb := range blocks {
		n += len(sb)
	}
	out := make([]byte, 0, n)
	for _, sb := range blocks {
		out = append(out, sb...)
	}
	return out
}

// Disposal methods of the graphic control extension.
const (
	DisposalUnspecified = 0
	DisposalNone        = 1
	DisposalBackground  = 2
	DisposalPrevious    = 3
)

/*
GraphicControlExtension.Packed {
	5-7:	Reserved
	2-4:	DisposalMethod
	  1:	UserInputFlag
	  0:	TransparentColorFlag
}
*/

// GraphicControlExtension carries animation metadata for the image block it
// precedes. None of it is applied during decoding.
type GraphicControlExtension struct {
	BlockSize        byte
	Packed           byte
	DelayTime        uint16 // hundredths of a second
	TransparentIndex byte
}

// Disposal returns the disposal method, one of the Disposal constants or a
// reserved value.
func (g *GraphicControlExtension) Disposal() int { return int(g.Packed>>2) & 0x07 }

// UserInput reports the user input flag.
func (g *GraphicControlExtension) UserInput() bool { return g.Packed&0x02 != 0 }

// HasTransparency reports whether TransparentIndex is in effect.
func (g *GraphicControlExtension) HasTransparency() bool { return g.Packed&0x01 != 0 }

// Delay converts DelayTime to a duration.
func (g *GraphicControlExtension) Delay() time.Duration {
	return time.Duration(g.DelayTime) * 10 * time.Millisecond
}

// Color is one RGB color table entry.
type Color struct {
	R, G, B byte
}

// RGBA implements color.Color. GIF colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// ColorTable is an ordered palette; index 0 is the first entry.
type ColorTable []Color
