// Package atlas packs rectangles into a fixed-size texture using a
// bottom-left skyline.
//
// The free space is modelled as a skyline: a list of horizontal segments
// covering the full atlas width, each with the height already filled below
// it. A rectangle is dropped at the segment where its top ends lowest, ties
// going to the narrowest segment.
package atlas

import "errors"

// initNodes is the initial node capacity.
const initNodes = 256

// Sentinel errors for atlas package.
var (
	// ErrFull is returned when no position can hold the rectangle.
	ErrFull = errors.New("atlas: no room for rectangle")

	// ErrInvalidSize is returned for non-positive rectangles and for
	// attempts to shrink the atlas.
	ErrInvalidSize = errors.New("atlas: invalid size")
)

// Node is one skyline segment: the span [X, X+Width) is filled up to Y.
type Node struct {
	X     int
	Y     int
	Width int
}

// Atlas is a skyline rectangle packer. It is not safe for concurrent use.
type Atlas struct {
	width  int
	height int
	nodes  []Node
}

// New creates an empty atlas of the given size.
func New(width, height int) *Atlas {
	a := &Atlas{nodes: make([]Node, 0, initNodes)}
	a.Reset(width, height)
	return a
}

// Width returns the atlas width.
func (a *Atlas) Width() int { return a.width }

// Height returns the atlas height.
func (a *Atlas) Height() int { return a.height }

// Nodes returns a copy of the skyline, ordered by X.
func (a *Atlas) Nodes() []Node {
	out := make([]Node, len(a.nodes))
	copy(out, a.nodes)
	return out
}

// MaxY returns the highest filled row over the whole skyline.
func (a *Atlas) MaxY() int {
	maxY := 0
	for _, n := range a.nodes {
		maxY = max(maxY, n.Y)
	}
	return maxY
}

// Reset drops every allocation and resizes the atlas.
func (a *Atlas) Reset(width, height int) {
	a.width = width
	a.height = height
	a.nodes = append(a.nodes[:0], Node{X: 0, Y: 0, Width: width})
}

// Expand grows the atlas. Existing allocations keep their positions; new
// columns on the right start empty.
func (a *Atlas) Expand(width, height int) error {
	if width < a.width || height < a.height {
		return ErrInvalidSize
	}
	if width > a.width {
		a.nodes = append(a.nodes, Node{X: a.width, Y: 0, Width: width - a.width})
		a.merge()
	}
	a.width = width
	a.height = height
	return nil
}

// AddRect reserves a w×h rectangle and returns its top-left corner.
func (a *Atlas) AddRect(w, h int) (x, y int, err error) {
	if w <= 0 || h <= 0 {
		return 0, 0, ErrInvalidSize
	}

	best := -1
	bestW, bestH := 0, 0
	for i := range a.nodes {
		top := a.fits(i, w, h)
		if top < 0 {
			continue
		}
		nw := a.nodes[i].Width
		if best < 0 || top+h < bestH || (top+h == bestH && nw < bestW) {
			best = i
			bestW = nw
			bestH = top + h
			x, y = a.nodes[i].X, top
		}
	}
	if best < 0 {
		return 0, 0, ErrFull
	}

	a.addLevel(best, x, y, w, h)
	return x, y, nil
}

// fits returns the height at which a w×h rectangle starting at node i
// rests, or -1 when it would leave the atlas.
func (a *Atlas) fits(i, w, h int) int {
	x := a.nodes[i].X
	y := a.nodes[i].Y
	if x+w > a.width {
		return -1
	}
	for left := w; left > 0; i++ {
		if i == len(a.nodes) {
			return -1
		}
		y = max(y, a.nodes[i].Y)
		if y+h > a.height {
			return -1
		}
		left -= a.nodes[i].Width
	}
	return y
}

// addLevel inserts the new segment at idx, trims the segments it shadows
// and merges equal neighbours.
func (a *Atlas) addLevel(idx, x, y, w, h int) {
	a.nodes = append(a.nodes, Node{})
	copy(a.nodes[idx+1:], a.nodes[idx:])
	a.nodes[idx] = Node{X: x, Y: y + h, Width: w}

	for i := idx + 1; i < len(a.nodes); {
		prev := a.nodes[i-1]
		end := prev.X + prev.Width
		if a.nodes[i].X >= end {
			break
		}
		shrink := end - a.nodes[i].X
		a.nodes[i].X += shrink
		a.nodes[i].Width -= shrink
		if a.nodes[i].Width > 0 {
			break
		}
		a.remove(i)
	}

	a.merge()
}

func (a *Atlas) merge() {
	for i := 0; i < len(a.nodes)-1; {
		if a.nodes[i].Y == a.nodes[i+1].Y {
			a.nodes[i].Width += a.nodes[i+1].Width
			a.remove(i + 1)
			continue
		}
		i++
	}
}

func (a *Atlas) remove(i int) {
	copy(a.nodes[i:], a.nodes[i+1:])
	a.nodes = a.nodes[:len(a.nodes)-1]
}
