package fontstash

import "image"

// Renderer receives the atlas texture and the vertices produced by
// [Stash.DrawText]. All methods are called from the goroutine that owns
// the stash.
type Renderer interface {
	// Create allocates a texture of the given size.
	Create(width, height int) error

	// Resize replaces the texture with one of the given size. The stash
	// follows up with an Update covering the texels to keep.
	Resize(width, height int) error

	// Update uploads rect of data, a single-channel buffer whose stride is
	// the atlas width.
	Update(rect Rect, data []byte)

	// Draw renders triangles: two float32 per vertex in verts and tcoords,
	// one RGBA color per vertex packed as 0xAABBGGRR.
	Draw(verts, tcoords []float32, colors []uint32)
}

// Rect is a rectangle of atlas texels, max exclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Empty reports whether r contains no texels.
func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

// Rectangle returns r as an image.Rectangle. An empty r stays empty.
func (r Rect) Rectangle() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// union grows r to include the given rect.
func (r *Rect) union(x0, y0, x1, y1 int) {
	r.MinX = min(r.MinX, x0)
	r.MinY = min(r.MinY, y0)
	r.MaxX = max(r.MaxX, x1)
	r.MaxY = max(r.MaxY, y1)
}

// Bounds is a rectangle in text space.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float32
}
