package gifdecoder

import (
	"bytes"
	"io"
)

// Options provides control over parsing and decoding
type Options struct {
	MaxPixels               int  // 0 = unlimited, otherwise largest width*height per image and per document
	Concurrency             int  // images decoded in parallel by DecodeFrames, 0 or 1 = serial
	SkipUnknownApplications bool // drop application extensions other than NETSCAPE2.0 instead of failing
}

// Parse is a convenience function to parse a GIF89a file with default settings
func Parse(data []byte) (*Document, error) {
	return NewGIFDecoder().Parse(data)
}

// ParseReader parses everything r yields with default settings
func ParseReader(r io.Reader) (*Document, error) {
	return NewGIFDecoder().ParseReader(r)
}

// DecodeFrames decodes every image of doc with default settings
func DecodeFrames(doc *Document) ([]Frame, error) {
	return NewGIFDecoder().DecodeFrames(doc)
}

// DecodeAll is a convenience function to parse r and decode all its frames
func DecodeAll(r io.Reader) (*Document, []Frame, error) {
	return DecodeAllWithOptions(r, Options{})
}

// DecodeAllWithOptions parses r and decodes all its frames using opts
func DecodeAllWithOptions(r io.Reader, opts Options) (*Document, []Frame, error) {
	gd := NewGIFDecoderWithOptions(opts)

	doc, err := gd.ParseReader(r)
	if err != nil {
		return nil, nil, err
	}

	frames, err := gd.DecodeFrames(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, frames, nil
}

// DecodeBytes parses data and decodes all its frames with default settings
func DecodeBytes(data []byte) ([]Frame, error) {
	_, frames, err := DecodeAll(bytes.NewReader(data))
	return frames, err
}
