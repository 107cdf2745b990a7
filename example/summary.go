package main

import (
	"image/color"

	"github.com/ManInM00N/gifdecoder"
	"github.com/tidwall/match"
	"golang.org/x/image/colornames"
)

// summary is the JSON view of a parsed document
type summary struct {
	Version      string         `json:"version"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	GlobalColors int            `json:"globalColors"`
	Background   int            `json:"background"`
	LoopCount    *int           `json:"loopCount,omitempty"`
	Comments     []string       `json:"comments,omitempty"`
	Pixels       int            `json:"pixels"`
	Blocks       []blockSummary `json:"blocks"`
	Frames       []frameSummary `json:"frames,omitempty"`
}

type blockSummary struct {
	Index     int             `json:"index"`
	Kind      string          `json:"kind"`
	SubBlocks int             `json:"subBlocks,omitempty"`
	Image     *imageSummary   `json:"image,omitempty"`
	Control   *controlSummary `json:"control,omitempty"`
}

type imageSummary struct {
	Left        int  `json:"left"`
	Top         int  `json:"top"`
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	Interlaced  bool `json:"interlaced"`
	LocalColors int  `json:"localColors"`
	MinCodeSize int  `json:"minCodeSize"`
	DataBytes   int  `json:"dataBytes"`
}

type controlSummary struct {
	DelayMs     int64 `json:"delayMs"`
	Disposal    int   `json:"disposal"`
	Transparent *int  `json:"transparent,omitempty"`
	UserInput   bool  `json:"userInput,omitempty"`
}

type frameSummary struct {
	Index  int `json:"index"`
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Colors int `json:"colors"` // distinct colors used
}

// blockKind names a block for listing and -blocks filtering
func blockKind(b gifdecoder.Block) string {
	switch b := b.(type) {
	case *gifdecoder.ImageBlock:
		if _, ok := b.Content.(*gifdecoder.PlainText); ok {
			return "PlainText"
		}
		return "Image"
	case *gifdecoder.ApplicationExtension:
		return "Application"
	case *gifdecoder.CommentExtension:
		return "Comment"
	}
	return "Unknown"
}

// summarize builds the JSON view. Blocks whose kind does not match pattern
// are left out; an empty pattern keeps them all.
func summarize(doc *gifdecoder.Document, frames []gifdecoder.Frame, pattern string) summary {
	s := summary{
		Version:      string(doc.Version),
		Width:        int(doc.Screen.Width),
		Height:       int(doc.Screen.Height),
		GlobalColors: len(doc.GlobalColorTable),
		Background:   int(doc.Screen.BackgroundIndex),
		Comments:     doc.Comments(),
		Pixels:       doc.PixelCount(),
		Blocks:       []blockSummary{},
	}
	if app := doc.Netscape(); app != nil {
		if n, ok := app.LoopCount(); ok {
			s.LoopCount = &n
		}
	}

	for i, b := range doc.Blocks {
		kind := blockKind(b)
		if pattern != "" && !match.Match(kind, pattern) {
			continue
		}
		bs := blockSummary{Index: i, Kind: kind}

		switch b := b.(type) {
		case *gifdecoder.ImageBlock:
			bs.Control = summarizeControl(b.Control)
			if img, ok := b.Content.(*gifdecoder.Image); ok {
				d := img.Descriptor
				bs.SubBlocks = len(img.Data.SubBlocks)
				bs.Image = &imageSummary{
					Left:        int(d.Left),
					Top:         int(d.Top),
					Width:       int(d.Width),
					Height:      int(d.Height),
					Interlaced:  d.Interlaced(),
					LocalColors: len(img.LocalColorTable),
					MinCodeSize: int(img.Data.MinCodeSize),
				}
				for _, sb := range img.Data.SubBlocks {
					bs.Image.DataBytes += len(sb)
				}
			}
		case *gifdecoder.ApplicationExtension:
			bs.SubBlocks = len(b.SubBlocks)
		case *gifdecoder.CommentExtension:
			bs.SubBlocks = len(b.SubBlocks)
		}
		s.Blocks = append(s.Blocks, bs)
	}

	for i, f := range frames {
		used := make(map[gifdecoder.Color]struct{})
		for _, c := range f.Pixels {
			used[c] = struct{}{}
		}
		s.Frames = append(s.Frames, frameSummary{
			Index:  i,
			Left:   f.Left,
			Top:    f.Top,
			Width:  f.Width,
			Height: f.Height,
			Colors: len(used),
		})
	}
	return s
}

func summarizeControl(g *gifdecoder.GraphicControlExtension) *controlSummary {
	if g == nil {
		return nil
	}
	cs := &controlSummary{
		DelayMs:   g.Delay().Milliseconds(),
		Disposal:  g.Disposal(),
		UserInput: g.UserInput(),
	}
	if g.HasTransparency() {
		idx := int(g.TransparentIndex)
		cs.Transparent = &idx
	}
	return cs
}

var namedColors map[color.RGBA]string

// colorName returns the CSS name of c when one matches exactly. Where
// several names share a value the alphabetically first wins.
func colorName(c gifdecoder.Color) (string, bool) {
	if namedColors == nil {
		namedColors = make(map[color.RGBA]string, len(colornames.Map))
		for name, rgba := range colornames.Map {
			if prev, ok := namedColors[rgba]; !ok || name < prev {
				namedColors[rgba] = name
			}
		}
	}
	name, ok := namedColors[color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}]
	return name, ok
}
