package bracket

// Stack holds the open brackets, innermost last. It always contains a base
// frame of type Null, so Top never fails and depth never goes negative.
type Stack struct {
	frames []Frame
}

// NewStack returns a stack holding only the base frame.
func NewStack() *Stack {
	return &Stack{frames: []Frame{{Type: Null}}}
}

// Len returns the number of frames, including the base frame.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Depth returns the number of open brackets.
func (s *Stack) Depth() int {
	return len(s.frames) - 1
}

// Push opens a bracket.
func (s *Stack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Pop closes the innermost bracket and returns its frame. On the base frame
// it returns the base frame and leaves the stack unchanged.
func (s *Stack) Pop() (Frame, bool) {
	if len(s.frames) <= 1 {
		return s.frames[0], false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Top returns the innermost frame.
func (s *Stack) Top() Frame {
	return s.frames[len(s.frames)-1]
}

// TopType returns the type of the innermost frame.
func (s *Stack) TopType() Type {
	return s.Top().Type
}

// At returns the frame at index i counted from the base, or the base frame
// when i is out of range.
func (s *Stack) At(i int) Frame {
	if i < 0 || i >= len(s.frames) {
		return s.frames[0]
	}
	return s.frames[i]
}

// Parent returns the frame enclosing the innermost one, or the base frame.
func (s *Stack) Parent() Frame {
	return s.At(len(s.frames) - 2)
}

// Truncate drops frames until at most n remain. The base frame is kept.
func (s *Stack) Truncate(n int) {
	if n < 1 {
		n = 1
	}
	if n < len(s.frames) {
		s.frames = s.frames[:n]
	}
}
