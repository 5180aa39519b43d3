// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputexture

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fontstash"
)

// Renderer errors.
var (
	// ErrNilCreator is returned when New is called without a texture creator.
	ErrNilCreator = errors.New("gputexture: nil TextureCreator")

	// ErrClosed is returned when the renderer is used after Close.
	ErrClosed = errors.New("gputexture: renderer is closed")

	// ErrInvalidDimensions is returned for non-positive texture sizes.
	ErrInvalidDimensions = errors.New("gputexture: invalid dimensions")

	// ErrUnsupportedFormat is returned when Options.Format is not an 8-bit
	// four channel format.
	ErrUnsupportedFormat = errors.New("gputexture: unsupported texture format")

	// ErrNotUpdatable is reported when the texture implements neither
	// gpucontext.TextureRegionUpdater nor gpucontext.TextureUpdater.
	ErrNotUpdatable = errors.New("gputexture: texture does not support updates")

	// ErrNoTexture is returned by DrawAtlas before Create.
	ErrNoTexture = errors.New("gputexture: no texture")
)

// textureDestroyer is implemented by textures that release GPU memory.
type textureDestroyer interface {
	Destroy()
}

// DrawFunc receives one batch of textured triangles. verts and tcoords hold
// x,y pairs; colors holds one RGBA value per vertex. The slices are reused
// after DrawFunc returns.
type DrawFunc func(tex gpucontext.Texture, verts, tcoords []float32, colors []uint32)

// Options configures a Renderer.
type Options struct {
	// Format is the texture format the creator produces. It only selects the
	// byte layout, since every texel is gray. Zero means RGBA8Unorm.
	Format gputypes.TextureFormat

	// Premultiplied stores coverage in every channel (a, a, a, a) instead of
	// white with alpha (255, 255, 255, a).
	Premultiplied bool

	// Draw is called for every flushed vertex batch. Nil drops the batches,
	// which is useful when the caller only needs the atlas texture.
	Draw DrawFunc
}

// Renderer implements fontstash.Renderer on top of gpucontext textures.
// The 8-bit atlas is expanded to 32-bit texels in a CPU staging buffer and
// uploaded region by region when the texture supports it.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	creator gpucontext.TextureCreator
	opts    Options

	texture gpucontext.Texture
	width   int
	height  int
	staging []byte
	region  []byte

	err    error
	closed bool
}

var _ fontstash.Renderer = (*Renderer)(nil)

// New creates a Renderer that allocates textures through creator.
func New(creator gpucontext.TextureCreator, opts Options) (*Renderer, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	if opts.Format == gputypes.TextureFormatUndefined {
		opts.Format = gputypes.TextureFormatRGBA8Unorm
	}
	if !supported(opts.Format) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, opts.Format)
	}
	return &Renderer{creator: creator, opts: opts}, nil
}

// MustNew is like New but panics on error.
func MustNew(creator gpucontext.TextureCreator, opts Options) *Renderer {
	r, err := New(creator, opts)
	if err != nil {
		panic(err)
	}
	return r
}

// NewForDrawer creates a Renderer using the drawer's texture creator.
func NewForDrawer(dc gpucontext.TextureDrawer, opts Options) (*Renderer, error) {
	if dc == nil {
		return nil, ErrNilCreator
	}
	return New(dc.TextureCreator(), opts)
}

func supported(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// Create allocates a blank width×height texture.
func (r *Renderer) Create(width, height int) error {
	if r.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	staging := make([]byte, width*height*4)
	if !r.opts.Premultiplied {
		for i := 0; i < len(staging); i += 4 {
			r.texel(staging[i:i+4], 0)
		}
	}
	tex, err := r.creator.NewTextureFromRGBA(width, height, staging)
	if err != nil {
		return fmt.Errorf("gputexture: NewTextureFromRGBA failed: %w", err)
	}

	r.destroy()
	r.texture = tex
	r.width, r.height = width, height
	r.staging = staging
	fontstash.Logger().Debug("gputexture: texture created",
		"width", width, "height", height, "format", r.opts.Format)
	return nil
}

// Resize replaces the texture with a blank one of the new size. The stash
// uploads the texels it keeps right after.
func (r *Renderer) Resize(width, height int) error {
	return r.Create(width, height)
}

// Update expands rect of the 8-bit atlas data (stride = atlas width) into
// the staging buffer and uploads it. Upload errors are kept for Err.
func (r *Renderer) Update(rect fontstash.Rect, data []byte) {
	if r.closed || r.texture == nil {
		return
	}
	rect.MinX, rect.MinY = max(rect.MinX, 0), max(rect.MinY, 0)
	rect.MaxX, rect.MaxY = min(rect.MaxX, r.width), min(rect.MaxY, r.height)
	if rect.Empty() {
		return
	}

	for y := rect.MinY; y < rect.MaxY; y++ {
		src := data[y*r.width+rect.MinX : y*r.width+rect.MaxX]
		dst := r.staging[(y*r.width+rect.MinX)*4:]
		for i, a := range src {
			r.texel(dst[i*4:i*4+4], a)
		}
	}

	if err := r.upload(rect); err != nil {
		fontstash.Logger().Warn("gputexture: upload failed", "rect", rect.Rectangle(), "err", err)
		if r.err == nil {
			r.err = err
		}
	}
}

func (r *Renderer) texel(p []byte, a byte) {
	if r.opts.Premultiplied {
		p[0], p[1], p[2], p[3] = a, a, a, a
		return
	}
	p[0], p[1], p[2], p[3] = 0xff, 0xff, 0xff, a
}

func (r *Renderer) upload(rect fontstash.Rect) error {
	if u, ok := r.texture.(gpucontext.TextureRegionUpdater); ok {
		w, h := rect.MaxX-rect.MinX, rect.MaxY-rect.MinY
		n := w * h * 4
		if cap(r.region) < n {
			r.region = make([]byte, n)
		}
		buf := r.region[:n]
		for y := 0; y < h; y++ {
			off := ((rect.MinY+y)*r.width + rect.MinX) * 4
			copy(buf[y*w*4:(y+1)*w*4], r.staging[off:off+w*4])
		}
		return u.UpdateRegion(rect.MinX, rect.MinY, w, h, buf)
	}
	if u, ok := r.texture.(gpucontext.TextureUpdater); ok {
		return u.UpdateData(r.staging)
	}
	return ErrNotUpdatable
}

// Draw forwards a vertex batch to Options.Draw.
func (r *Renderer) Draw(verts, tcoords []float32, colors []uint32) {
	if r.closed || r.texture == nil || r.opts.Draw == nil {
		return
	}
	r.opts.Draw(r.texture, verts, tcoords, colors)
}

// DrawAtlas draws the whole atlas texture at (x, y). Handy for debugging.
func (r *Renderer) DrawAtlas(dc gpucontext.TextureDrawer, x, y float32) error {
	if r.closed {
		return ErrClosed
	}
	if r.texture == nil {
		return ErrNoTexture
	}
	return dc.DrawTexture(r.texture, x, y)
}

// Texture returns the current atlas texture, or nil before Create.
func (r *Renderer) Texture() gpucontext.Texture {
	return r.texture
}

// Size returns the texture size.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Format returns the texture format texels are laid out for.
func (r *Renderer) Format() gputypes.TextureFormat {
	return r.opts.Format
}

// Pixels returns the staging buffer: the last uploaded texels, 4 bytes each.
func (r *Renderer) Pixels() []byte {
	return r.staging
}

// Err returns the first upload error since the previous call and clears it.
func (r *Renderer) Err() error {
	err := r.err
	r.err = nil
	return err
}

// Close destroys the texture. Close is idempotent.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.destroy()
	r.staging = nil
	r.region = nil
	return nil
}

func (r *Renderer) destroy() {
	if r.texture == nil {
		return
	}
	if d, ok := r.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	r.texture = nil
}
