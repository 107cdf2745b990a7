package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ManInM00N/gifdecoder"
	"github.com/anthonynsimon/bild/transform"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

type config struct {
	frames    bool
	json      bool
	query     string
	blocks    string
	palette   bool
	out       string
	scale     int
	workers   int
	maxPixels int
	lenient   bool
}

var (
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	red   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func main() {
	var cfg config
	flag.BoolVar(&cfg.frames, "frames", false, "decode every image and report the frames")
	flag.BoolVar(&cfg.json, "json", false, "print a JSON summary")
	flag.StringVar(&cfg.query, "query", "", "print the part of the JSON summary at this gjson path")
	flag.StringVar(&cfg.blocks, "blocks", "", "only list blocks whose kind matches this wildcard, e.g. Image*")
	flag.BoolVar(&cfg.palette, "palette", false, "list the global color table")
	flag.StringVar(&cfg.out, "out", "", "write every frame as PNG into this directory")
	flag.IntVar(&cfg.scale, "scale", 1, "enlarge written frames by this factor (nearest neighbor)")
	flag.IntVar(&cfg.workers, "workers", 1, "images decoded in parallel")
	flag.IntVar(&cfg.maxPixels, "max-pixels", 0, "reject documents with more pixels than this (0 = unlimited)")
	flag.BoolVar(&cfg.lenient, "lenient", false, "skip unknown application extensions")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: gifdump [flags] file.gif|file.gif.zst|-\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}

func run(path string, cfg config) error {
	data, err := readSource(path)
	if err != nil {
		return err
	}

	gd := gifdecoder.NewGIFDecoderWithOptions(gifdecoder.Options{
		MaxPixels:               cfg.maxPixels,
		Concurrency:             cfg.workers,
		SkipUnknownApplications: cfg.lenient,
	})

	doc, err := gd.Parse(data)
	if err != nil {
		return err
	}

	var frames []gifdecoder.Frame
	if cfg.frames || cfg.out != "" {
		if frames, err = gd.DecodeFrames(doc); err != nil {
			return err
		}
	}

	if cfg.out != "" {
		if err := writeFrames(cfg.out, frames, cfg.scale); err != nil {
			return err
		}
	}

	if cfg.json || cfg.query != "" {
		return printJSON(summarize(doc, frames, cfg.blocks), cfg.query)
	}

	printDocument(doc, cfg)
	if cfg.frames {
		printFrames(frames)
	}
	return nil
}

func printJSON(s summary, query string) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	if query != "" {
		res := gjson.GetBytes(out, query)
		if !res.Exists() {
			return fmt.Errorf("query %q matched nothing", query)
		}
		out = []byte(res.Raw)
	}

	out = pretty.Pretty(out)
	if !color.NoColor {
		out = pretty.Color(out, nil)
	}
	fmt.Print(string(out))
	return nil
}

func printDocument(doc *gifdecoder.Document, cfg config) {
	s := summarize(doc, nil, cfg.blocks)

	fmt.Printf("%s %dx%d\n", cyan("GIF"+s.Version), s.Width, s.Height)
	fmt.Println("====================")
	fmt.Printf("global colors: %d, background: %d\n", s.GlobalColors, s.Background)
	if s.LoopCount != nil {
		if *s.LoopCount == 0 {
			fmt.Println("loop: forever")
		} else {
			fmt.Printf("loop: %d times\n", *s.LoopCount)
		}
	}
	for _, c := range s.Comments {
		fmt.Printf("comment: %q\n", c)
	}

	if cfg.palette {
		fmt.Println()
		printPalette(doc.GlobalColorTable)
	}

	fmt.Println()
	for _, b := range s.Blocks {
		line := fmt.Sprintf("%3d %-11s", b.Index, cyan(b.Kind))
		if img := b.Image; img != nil {
			line += fmt.Sprintf(" %dx%d at (%d,%d) code size %d, %d bytes in %d sub-blocks",
				img.Width, img.Height, img.Left, img.Top, img.MinCodeSize, img.DataBytes, b.SubBlocks)
			if img.LocalColors > 0 {
				line += fmt.Sprintf(", %d local colors", img.LocalColors)
			}
			if img.Interlaced {
				line += ", interlaced"
			}
		} else if b.SubBlocks > 0 {
			line += fmt.Sprintf(" %d sub-blocks", b.SubBlocks)
		}
		if c := b.Control; c != nil {
			line += faint(fmt.Sprintf(" [delay %dms, disposal %d]", c.DelayMs, c.Disposal))
		}
		fmt.Println(line)
	}
	fmt.Printf("\ntotal pixels: %d\n", s.Pixels)
}

func printPalette(table gifdecoder.ColorTable) {
	if table == nil {
		fmt.Println(faint("no global color table"))
		return
	}
	for i, c := range table {
		swatch := color.RGB(int(c.R), int(c.G), int(c.B)).Sprint("██")
		line := fmt.Sprintf("%3d %s #%02x%02x%02x", i, swatch, c.R, c.G, c.B)
		if name, ok := colorName(c); ok {
			line += " " + name
		}
		fmt.Println(line)
	}
}

func printFrames(frames []gifdecoder.Frame) {
	fmt.Println()
	total := 0
	for i, f := range frames {
		total += len(f.Pixels)
		fmt.Printf("%s frame %d: %dx%d at (%d,%d)\n", green("✅"), i, f.Width, f.Height, f.Left, f.Top)
	}
	fmt.Printf("decoded %d frames, %d pixels\n", len(frames), total)
}

// writeFrames stores each frame as frame-NNN.png. Unscaled frames keep their
// logical screen position; scaled ones start at the origin.
func writeFrames(dir string, frames []gifdecoder.Frame, scale int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i := range frames {
		if frames[i].Width == 0 || frames[i].Height == 0 {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("frame-%03d.png", i))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		var img image.Image = frames[i].RGBA()
		if scale > 1 {
			img = transform.Resize(img, frames[i].Width*scale, frames[i].Height*scale, transform.NearestNeighbor)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
