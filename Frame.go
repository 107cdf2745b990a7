package gifdecoder

import (
	"image"
	"image/color"
)

// Frame is one decoded image: its placement on the logical screen and its
// colors in row-major order.
type Frame struct {
	Left, Top     int
	Width, Height int

	// Control is the graphic control extension of the owning image block,
	// or nil. It is carried as data only.
	Control *GraphicControlExtension

	Pixels []Color // len(Pixels) == Width*Height
}

// Bounds returns the frame's rectangle on the logical screen.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(f.Left, f.Top, f.Left+f.Width, f.Top+f.Height)
}

// At returns the color at (x, y) relative to the frame's top-left corner.
func (f *Frame) At(x, y int) Color {
	return f.Pixels[y*f.Width+x]
}

// RGBA copies the frame into an *image.RGBA positioned at Bounds.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.Pixels[y*f.Width+x]
			img.SetRGBA(f.Left+x, f.Top+y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return img
}

// colorTableFor picks the image's local table, else the global one.
func colorTableFor(img *Image, doc *Document) (ColorTable, error) {
	if img.LocalColorTable != nil {
		return img.LocalColorTable, nil
	}
	if doc.GlobalColorTable != nil {
		return doc.GlobalColorTable, nil
	}
	return nil, invalidData("image at (%d,%d) has neither a local nor a global color table",
		img.Descriptor.Left, img.Descriptor.Top)
}

// resolveFrame maps decompressed indices through table.
func resolveFrame(img *Image, gce *GraphicControlExtension, table ColorTable, indices []byte) (Frame, error) {
	d := img.Descriptor
	f := Frame{
		Left:    int(d.Left),
		Top:     int(d.Top),
		Width:   int(d.Width),
		Height:  int(d.Height),
		Control: gce,
		Pixels:  make([]Color, len(indices)),
	}
	for i, idx := range indices {
		if int(idx) >= len(table) {
			return Frame{}, invalidData("color index %d out of range for %d entry table at pixel %d",
				idx, len(table), i)
		}
		f.Pixels[i] = table[idx]
	}
	return f, nil
}
