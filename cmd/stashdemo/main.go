// Command stashdemo renders text through a fontstash atlas and writes the
// result and the atlas as PNG files.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/fontstash"
)

func main() {
	var (
		width    = flag.Int("width", 800, "image width")
		height   = flag.Int("height", 200, "image height")
		fontPath = flag.String("font", "", "TrueType font file (default Go Regular)")
		fallback = flag.String("fallback", "", "fallback font file")
		text     = flag.String("text", "The quick brown fox jumps over the lazy dog", "text to render")
		size     = flag.Float64("size", 32, "font size in pixels")
		blur     = flag.Float64("blur", 0, "blur radius")
		atlasW   = flag.Int("atlas", 256, "initial atlas size")
		debug    = flag.Bool("debug", false, "draw the atlas below the text")
		output   = flag.String("output", "text.png", "output file")
		atlasOut = flag.String("atlas-output", "atlas.png", "atlas output file")
		verbose  = flag.Bool("v", false, "log atlas events")
	)
	flag.Parse()

	if *verbose {
		fontstash.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	dst := image.NewRGBA(image.Rect(0, 0, *width, *height))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{0x20, 0x24, 0x30, 0xff}), image.Point{}, xdraw.Src)

	r := &imageRenderer{dst: dst}
	cfg := fontstash.DefaultConfig()
	cfg.Width, cfg.Height = *atlasW, *atlasW
	cfg.Renderer = r
	cfg.OnAtlasFull = func(s *fontstash.Stash) error {
		w, h := s.AtlasSize()
		return s.ExpandAtlas(w, h*2)
	}
	s, err := fontstash.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create stash: %v", err)
	}
	r.stash = s

	id, err := addFont(s, "main", *fontPath, goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	if *fallback != "" {
		fb, err := addFont(s, "fallback", *fallback, nil)
		if err != nil {
			log.Fatalf("Failed to load fallback font: %v", err)
		}
		if err := s.AddFallback(id, fb); err != nil {
			log.Fatalf("Failed to add fallback: %v", err)
		}
	}
	bold, err := s.AddFont("bold", gobold.TTF, 0)
	if err != nil {
		log.Fatalf("Failed to load bold font: %v", err)
	}

	s.SetFont(id)
	s.SetSize(float32(*size))
	s.SetBlur(float32(*blur))
	s.SetAlign(fontstash.AlignLeft | fontstash.AlignTop)
	s.SetColor(0xffffffff)

	_, _, lineh := s.VertMetrics()
	y := float32(10)
	s.DrawText(10, y, *text)
	y += lineh

	s.SetFont(bold)
	s.SetColor(0xff40c0ff)
	s.SetAlign(fontstash.AlignCenter | fontstash.AlignTop)
	s.DrawText(float32(*width)/2, y, "fontstash")
	y += lineh

	if *debug {
		s.DrawDebug(10, y+10)
	}

	if err := savePNG(*output, dst); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	data, aw, ah := s.TextureData()
	atlas := &image.Gray{Pix: data, Stride: aw, Rect: image.Rect(0, 0, aw, ah)}
	if err := savePNG(*atlasOut, atlas); err != nil {
		log.Fatalf("Failed to save atlas: %v", err)
	}

	log.Printf("Text saved to %s (%dx%d), atlas to %s (%dx%d)\n", *output, *width, *height, *atlasOut, aw, ah)
}

func addFont(s *fontstash.Stash, name, path string, def []byte) (int, error) {
	data := def
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return -1, err
		}
	}
	return s.AddFont(name, data, 0)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// imageRenderer composites stash quads onto an RGBA image, using the atlas
// as a coverage mask.
type imageRenderer struct {
	dst   *image.RGBA
	stash *fontstash.Stash
}

func (r *imageRenderer) Create(width, height int) error { return nil }
func (r *imageRenderer) Resize(width, height int) error { return nil }
func (r *imageRenderer) Update(fontstash.Rect, []byte)  {}

func (r *imageRenderer) Draw(verts, tcoords []float32, colors []uint32) {
	data, w, h := r.stash.TextureData()
	mask := &image.Alpha{Pix: data, Stride: w, Rect: image.Rect(0, 0, w, h)}

	// six vertices per quad; the first two are opposite corners
	for i := 0; i+6 <= len(colors); i += 6 {
		dr := image.Rect(int(verts[i*2]), int(verts[i*2+1]), int(verts[i*2+2]), int(verts[i*2+3]))
		sr := image.Rect(
			int(tcoords[i*2]*float32(w)), int(tcoords[i*2+1]*float32(h)),
			int(tcoords[i*2+2]*float32(w)), int(tcoords[i*2+3]*float32(h)))
		if sr.Dx() == 0 {
			sr.Max.X = sr.Min.X + 1
		}
		if sr.Dy() == 0 {
			sr.Max.Y = sr.Min.Y + 1
		}
		src := image.NewUniform(rgba(colors[i]))

		if sr.Size() == dr.Size() {
			xdraw.DrawMask(r.dst, dr, src, image.Point{}, mask, sr.Min, xdraw.Over)
			continue
		}
		scaled := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, sr, xdraw.Src, nil)
		xdraw.DrawMask(r.dst, dr, src, image.Point{}, scaled, image.Point{}, xdraw.Over)
	}
}

// rgba unpacks a 0xAABBGGRR vertex color.
func rgba(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(c), G: uint8(c >> 8), B: uint8(c >> 16), A: uint8(c >> 24)}
}
