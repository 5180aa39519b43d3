package fontstash

// Align is a combination of one horizontal and one vertical alignment flag.
type Align int

// Horizontal alignment.
const (
	AlignLeft   Align = 1 << 0 // default
	AlignCenter Align = 1 << 1
	AlignRight  Align = 1 << 2
)

// Vertical alignment.
const (
	AlignTop      Align = 1 << 3
	AlignMiddle   Align = 1 << 4
	AlignBottom   Align = 1 << 5
	AlignBaseline Align = 1 << 6 // default
)

// maxStates is the depth of the state stack.
const maxStates = 20

// State is the text style used by drawing and measurement.
type State struct {
	Font    int
	Align   Align
	Size    float32
	Color   uint32
	Blur    float32
	Spacing float32
}

func defaultState() State {
	return State{
		Font:  0,
		Align: AlignLeft | AlignBaseline,
		Size:  12,
		Color: 0xffffffff,
	}
}

func (s *Stash) state() *State {
	return &s.states[s.nstates-1]
}

// State returns the current text style.
func (s *Stash) State() State {
	return *s.state()
}

// PushState saves a copy of the current state on the stack.
func (s *Stash) PushState() error {
	if s.nstates >= maxStates {
		s.logger().Warn("fontstash: state stack overflow", "depth", s.nstates)
		return ErrStateOverflow
	}
	if s.nstates > 0 {
		s.states[s.nstates] = s.states[s.nstates-1]
	}
	s.nstates++
	return nil
}

// PopState restores the previously pushed state. The root state is never
// popped.
func (s *Stash) PopState() error {
	if s.nstates <= 1 {
		s.logger().Warn("fontstash: state stack underflow", "depth", s.nstates)
		return ErrStateUnderflow
	}
	s.nstates--
	return nil
}

// ClearState resets the current state to the defaults.
func (s *Stash) ClearState() {
	*s.state() = defaultState()
}

// SetSize sets the font size in pixels per em.
func (s *Stash) SetSize(size float32) { s.state().Size = size }

// SetColor sets the vertex color, packed as 0xAABBGGRR.
func (s *Stash) SetColor(color uint32) { s.state().Color = color }

// SetSpacing sets extra space added between glyphs, in pixels.
func (s *Stash) SetSpacing(spacing float32) { s.state().Spacing = spacing }

// SetBlur sets the blur radius in pixels. Radii above 20 are clamped.
func (s *Stash) SetBlur(blur float32) { s.state().Blur = blur }

// SetAlign sets the text alignment.
func (s *Stash) SetAlign(align Align) { s.state().Align = align }

// SetFont sets the current font id.
func (s *Stash) SetFont(font int) { s.state().Font = font }
