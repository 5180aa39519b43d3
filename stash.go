package fontstash

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/fontstash/atlas"
	"github.com/gogpu/fontstash/truetype"
)

// vertexCount is the number of vertices buffered before a draw call.
const vertexCount = 1024

// fontEntry is a font registered with a stash together with its glyph
// cache.
type fontEntry struct {
	name string
	info *truetype.Font

	// normalized to a one pixel em
	ascender  float32
	descender float32
	lineh     float32

	glyphs    []Glyph
	lut       [hashLUTSize]int
	fallbacks []int
}

// Stash caches rasterized glyphs of several fonts in one single-channel
// texture atlas and turns text into textured quads.
//
// A Stash is not safe for concurrent use.
type Stash struct {
	renderer    Renderer
	origin      Origin
	onAtlasFull func(*Stash) error
	log         *slog.Logger

	width, height int
	itw, ith      float32
	tex           []byte
	dirty         Rect
	atlas         *atlas.Atlas

	fonts []*fontEntry

	verts   [vertexCount * 2]float32
	tcoords [vertexCount * 2]float32
	colors  [vertexCount]uint32
	nverts  int

	states  [maxStates]State
	nstates int
}

// New creates a stash with an empty atlas of cfg.Width × cfg.Height texels.
func New(cfg Config) (*Stash, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Stash{
		renderer:    cfg.Renderer,
		origin:      cfg.Origin,
		onAtlasFull: cfg.OnAtlasFull,
		log:         cfg.Logger,
	}
	if s.renderer != nil {
		if err := s.renderer.Create(cfg.Width, cfg.Height); err != nil {
			return nil, fmt.Errorf("fontstash: create texture: %w", err)
		}
	}

	s.atlas = atlas.New(cfg.Width, cfg.Height)
	s.setSize(cfg.Width, cfg.Height)
	s.tex = make([]byte, cfg.Width*cfg.Height)
	s.dirty = s.emptyRect()

	// white texels for solid fills and the debug view
	s.addWhiteRect(2, 2)

	_ = s.PushState()
	s.ClearState()
	return s, nil
}

func (s *Stash) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return Logger()
}

func (s *Stash) setSize(w, h int) {
	s.width = w
	s.height = h
	s.itw = 1 / float32(w)
	s.ith = 1 / float32(h)
}

func (s *Stash) emptyRect() Rect {
	return Rect{MinX: s.width, MinY: s.height}
}

func (s *Stash) addWhiteRect(w, h int) {
	gx, gy, err := s.atlas.AddRect(w, h)
	if err != nil {
		return
	}
	for y := range h {
		row := s.tex[gx+(gy+y)*s.width:]
		for x := range w {
			row[x] = 0xff
		}
	}
	s.dirty.union(gx, gy, gx+w, gy+h)
}

// AddFont parses font index of data and registers it under name. data must
// not be modified afterwards. It returns the new font id.
func (s *Stash) AddFont(name string, data []byte, index int) (int, error) {
	info, err := truetype.Parse(data, index)
	if err != nil {
		return -1, fmt.Errorf("fontstash: add font %q: %w", name, err)
	}

	ascent, descent, lineGap := info.VMetrics()
	ascent += lineGap
	fh := ascent - descent
	if fh == 0 {
		return -1, fmt.Errorf("%w: %q has zero height", ErrInvalidFont, name)
	}

	f := &fontEntry{
		name:      name,
		info:      info,
		ascender:  float32(ascent) / float32(fh),
		descender: float32(descent) / float32(fh),
		glyphs:    make([]Glyph, 0, initGlyphs),
	}
	f.lineh = f.ascender - f.descender
	f.resetGlyphs()

	s.fonts = append(s.fonts, f)
	id := len(s.fonts) - 1
	s.logger().Debug("fontstash: font added",
		"name", name, "id", id, "glyphs", info.NumGlyphs(), "cff", info.IsCFF())
	return id, nil
}

// FontByName returns the id of the first font added under name.
func (s *Stash) FontByName(name string) (int, bool) {
	for i, f := range s.fonts {
		if f.name == name {
			return i, true
		}
	}
	return -1, false
}

// NumFonts returns the number of registered fonts.
func (s *Stash) NumFonts() int {
	return len(s.fonts)
}

// FontInfo returns the parsed font behind id.
func (s *Stash) FontInfo(id int) (*truetype.Font, error) {
	f, err := s.font(id)
	if err != nil {
		return nil, err
	}
	return f.info, nil
}

func (s *Stash) font(id int) (*fontEntry, error) {
	if id < 0 || id >= len(s.fonts) {
		return nil, fmt.Errorf("%w: id %d", ErrInvalidFont, id)
	}
	return s.fonts[id], nil
}

// AddFallback makes glyphs missing from base resolve through fallback.
// Fallbacks are tried in the order they were added.
func (s *Stash) AddFallback(base, fallback int) error {
	f, err := s.font(base)
	if err != nil {
		return err
	}
	if _, err := s.font(fallback); err != nil {
		return err
	}
	if len(f.fallbacks) >= maxFallbacks {
		return ErrTooManyFallbacks
	}
	f.fallbacks = append(f.fallbacks, fallback)
	return nil
}

// ResetFallback removes every fallback of base. Cached glyphs of base are
// dropped since they may have been resolved through a fallback.
func (s *Stash) ResetFallback(base int) error {
	f, err := s.font(base)
	if err != nil {
		return err
	}
	f.fallbacks = f.fallbacks[:0]
	f.resetGlyphs()
	return nil
}

// TextureData returns the atlas texels, one byte per texel with a stride of
// w. The slice is replaced by ExpandAtlas and ResetAtlas.
func (s *Stash) TextureData() (data []byte, w, h int) {
	return s.tex, s.width, s.height
}

// AtlasSize returns the atlas size in texels.
func (s *Stash) AtlasSize() (w, h int) {
	return s.width, s.height
}

// DirtyRect returns the texels changed since the last upload.
func (s *Stash) DirtyRect() Rect {
	return s.dirty
}

// ValidateTexture returns the dirty rectangle and marks it clean. ok is
// false when nothing changed.
func (s *Stash) ValidateTexture() (dirty Rect, ok bool) {
	if s.dirty.Empty() {
		return Rect{}, false
	}
	dirty = s.dirty
	s.dirty = s.emptyRect()
	return dirty, true
}

// ExpandAtlas grows the atlas to at least width × height, keeping every
// cached glyph in place. Smaller sizes leave the dimension unchanged.
func (s *Stash) ExpandAtlas(width, height int) error {
	width = max(width, s.width)
	height = max(height, s.height)
	if width == s.width && height == s.height {
		return nil
	}
	if width > MaxAtlasSize || height > MaxAtlasSize {
		return fmt.Errorf("%w: %dx%d", atlas.ErrInvalidSize, width, height)
	}

	s.flush()
	if s.renderer != nil {
		if err := s.renderer.Resize(width, height); err != nil {
			return fmt.Errorf("%w: %w", ErrRendererResize, err)
		}
	}

	tex := make([]byte, width*height)
	for y := range s.height {
		copy(tex[y*width:], s.tex[y*s.width:(y+1)*s.width])
	}
	s.tex = tex

	if err := s.atlas.Expand(width, height); err != nil {
		return err
	}

	oldW := s.width
	s.dirty = Rect{MinX: 0, MinY: 0, MaxX: oldW, MaxY: s.atlas.MaxY()}
	s.setSize(width, height)
	s.logger().Debug("fontstash: atlas expanded", "width", width, "height", height)
	return nil
}

// ResetAtlas empties the atlas and resizes it to width × height. Every
// cached glyph of every font is dropped.
func (s *Stash) ResetAtlas(width, height int) error {
	if width < MinAtlasSize || height < MinAtlasSize ||
		width > MaxAtlasSize || height > MaxAtlasSize {
		return fmt.Errorf("%w: %dx%d", atlas.ErrInvalidSize, width, height)
	}

	s.flush()
	if s.renderer != nil {
		if err := s.renderer.Resize(width, height); err != nil {
			return fmt.Errorf("%w: %w", ErrRendererResize, err)
		}
	}

	s.atlas.Reset(width, height)
	s.tex = make([]byte, width*height)
	s.setSize(width, height)
	s.dirty = s.emptyRect()

	for _, f := range s.fonts {
		f.resetGlyphs()
	}

	s.addWhiteRect(2, 2)
	s.logger().Debug("fontstash: atlas reset", "width", width, "height", height)
	return nil
}
