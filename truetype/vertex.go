package truetype

// VertexOp is the kind of path command a Vertex carries.
type VertexOp uint8

// Path commands. Each contour starts with MoveTo.
const (
	MoveTo VertexOp = iota + 1
	LineTo
	QuadTo
	CubicTo
)

// String returns the command name.
func (op VertexOp) String() string {
	switch op {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case QuadTo:
		return "QuadTo"
	case CubicTo:
		return "CubicTo"
	default:
		return "Unknown"
	}
}

// Vertex is one path command in font units with y pointing up.
//
// X, Y is the end point. QuadTo uses CX, CY as its control point. CubicTo
// uses CX, CY as the first and CX1, CY1 as the second control point.
type Vertex struct {
	X, Y     int16
	CX, CY   int16
	CX1, CY1 int16
	Op       VertexOp
}

// GlyphShape returns the outline of g as a vertex stream. Empty, missing
// and malformed glyphs return nil.
func (f *Font) GlyphShape(g GlyphIndex) []Vertex {
	if f.IsCFF() {
		return f.charstringShape(g)
	}
	return f.glyfShape(g, 0)
}
