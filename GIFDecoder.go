package gifdecoder

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

const (
	signature     = "GIF"
	headerSize    = 6
	screenLSDSize = 7
)

// GIFDecoder parses GIF89a files and decodes their frames
type GIFDecoder struct {
	// 0 = unlimited, otherwise the largest width*height accepted per image
	// and per document
	maxPixels int

	// number of images decoded in parallel by DecodeFrames, <= 1 is serial
	concurrency int

	// skip application extensions other than NETSCAPE2.0 instead of failing
	skipUnknownApplications bool
}

// NewGIFDecoder creates a new GIF decoder with default settings
func NewGIFDecoder() *GIFDecoder {
	return &GIFDecoder{
		concurrency: 1,
	}
}

// NewGIFDecoderWithOptions creates a decoder configured from opts
func NewGIFDecoderWithOptions(opts Options) *GIFDecoder {
	gd := NewGIFDecoder()
	gd.SetMaxPixels(opts.MaxPixels)
	gd.SetConcurrency(opts.Concurrency)
	gd.SetSkipUnknownApplications(opts.SkipUnknownApplications)
	return gd
}

// SetMaxPixels bounds the decoded output. Images or documents with more
// pixels fail with ErrTooLarge before any decompression. 0 disables the check.
func (gd *GIFDecoder) SetMaxPixels(n int) {
	if n < 0 {
		n = 0
	}
	gd.maxPixels = n
}

// SetConcurrency sets how many images DecodeFrames decodes at once
func (gd *GIFDecoder) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	gd.concurrency = n
}

// SetSkipUnknownApplications makes the parser drop application extensions
// it does not recognize rather than rejecting the file
func (gd *GIFDecoder) SetSkipUnknownApplications(skip bool) {
	gd.skipUnknownApplications = skip
}

// Parse parses a complete GIF89a file. data is copied, so the returned
// document does not alias the caller's buffer.
func (gd *GIFDecoder) Parse(data []byte) (*Document, error) {
	return gd.parse(bytes.Clone(data))
}

// ParseReader reads r to the end and parses the result
func (gd *GIFDecoder) ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return gd.parse(data)
}

func (gd *GIFDecoder) parse(data []byte) (*Document, error) {
	r := newByteReader(data)

	// header
	if !r.hasPrefix(signature[0], signature[1], signature[2]) {
		return nil, formatError("header", 0, "missing %q signature", signature)
	}
	r.pos = len(signature)
	version, err := r.readN(headerSize-len(signature), "header")
	if err != nil {
		return nil, err
	}
	if Version(version) != Version89a {
		return nil, formatError("header", len(signature), "unsupported version %q", version)
	}

	doc := &Document{Version: Version89a}

	// logical screen descriptor
	const stage = "logical screen descriptor"
	if r.remaining() < screenLSDSize {
		return nil, formatError(stage, r.pos, "need %d bytes, have %d", screenLSDSize, r.remaining())
	}
	doc.Screen.Width, _ = r.readUint16(stage)
	doc.Screen.Height, _ = r.readUint16(stage)
	flags, _ := r.readByte(stage)
	doc.Screen.Flags = Flags{Raw: flags}
	doc.Screen.BackgroundIndex, _ = r.readByte(stage)
	doc.Screen.PixelAspectRatio, _ = r.readByte(stage)

	// global color table
	if doc.Screen.Flags.HasGlobalTable() {
		doc.GlobalColorTable, err = readColorTable(r, doc.Screen.Flags.TableSize(), "global color table")
		if err != nil {
			return nil, err
		}
	}

	p := &blockParser{r: r, skipUnknownApplications: gd.skipUnknownApplications}
	if doc.Blocks, err = p.parseBlocks(); err != nil {
		return nil, err
	}

	if n := r.remaining(); n > 0 {
		return nil, formatError("trailer", r.pos, "%d bytes of data after trailer", n)
	}
	return doc, nil
}

// DecodeImage decompresses the pixel image of block and resolves it through
// the local color table, or the document's global table when there is none.
func (gd *GIFDecoder) DecodeImage(doc *Document, block *ImageBlock) (Frame, error) {
	img, ok := block.Content.(*Image)
	if !ok {
		return Frame{}, invalidData("image block carries plain text, not pixels")
	}

	pixels := img.Descriptor.PixelCount()
	if gd.maxPixels > 0 && pixels > gd.maxPixels {
		return Frame{}, fmt.Errorf("%w: %dx%d image exceeds %d pixels",
			ErrTooLarge, img.Descriptor.Width, img.Descriptor.Height, gd.maxPixels)
	}

	table, err := colorTableFor(img, doc)
	if err != nil {
		return Frame{}, err
	}

	indices, err := decodeLZW(img.Data, pixels)
	if err != nil {
		return Frame{}, err
	}
	return resolveFrame(img, block.Control, table, indices)
}

// DecodeFrames decodes every pixel image in document order. Plain text,
// comment and application blocks produce no frame.
func (gd *GIFDecoder) DecodeFrames(doc *Document) ([]Frame, error) {
	if total := doc.PixelCount(); gd.maxPixels > 0 && total > gd.maxPixels {
		return nil, fmt.Errorf("%w: document holds %d pixels, limit is %d", ErrTooLarge, total, gd.maxPixels)
	}

	images := doc.Images()
	frames := make([]Frame, len(images))

	if gd.concurrency <= 1 {
		for i, block := range images {
			f, err := gd.DecodeImage(doc, block)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = f
		}
		return frames, nil
	}

	var g errgroup.Group
	g.SetLimit(gd.concurrency)
	for i, block := range images {
		i, block := i, block
		g.Go(func() error {
			f, err := gd.DecodeImage(doc, block)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
