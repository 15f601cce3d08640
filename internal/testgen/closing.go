package testgen

// Closing is a pending `end` for one container.
type Closing struct {
	Opener int    // Line index of the container
	Indent string // Indentation of the container, reused for the closing line
	Target int    // Line index the closing is inserted before; -1 if none
}

// Resolved returns true if the closing found a target line.
func (c Closing) Resolved() bool {
	return c.Target >= 0
}

// ClosingStack holds pending closings, most recently pushed first.
//
// Push adds to the front and Drain pops from the front, so closings leave the
// stack innermost-first: a container discovered later (deeper) is closed
// before the containers enclosing it when both land on the same line.
type ClosingStack struct {
	items []Closing // items[len-1] is the front
}

// Push adds c to the front of the stack.
func (s *ClosingStack) Push(c Closing) {
	s.items = append(s.items, c)
}

// Pop removes and returns the front of the stack.
func (s *ClosingStack) Pop() (Closing, bool) {
	if len(s.items) == 0 {
		return Closing{}, false
	}
	c := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return c, true
}

// Peek returns the front of the stack without removing it.
func (s *ClosingStack) Peek() (Closing, bool) {
	if len(s.items) == 0 {
		return Closing{}, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of pending closings.
func (s *ClosingStack) Len() int {
	return len(s.items)
}

// Drain pops every closing, front first, leaving the stack empty.
func (s *ClosingStack) Drain() []Closing {
	out := make([]Closing, 0, len(s.items))
	for {
		c, ok := s.Pop()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}
