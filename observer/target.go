package observer

// Target returns the subscriber currently being evaluated, or nil.
func (s *System) Target() Subscriber {
	return s.target
}

// PushTarget makes sub the active subscriber, remembering the previous one.
// Pushing nil suspends dependency recording until the matching PopTarget.
// Nested evaluation must always go through PushTarget/PopTarget pairs.
func (s *System) PushTarget(sub Subscriber) {
	s.targetStack = append(s.targetStack, sub)
	s.target = sub
}

func (s *System) PopTarget() {
	lastIdx := len(s.targetStack) - 1
	if lastIdx < 0 {
		return
	}
	s.targetStack[lastIdx] = nil
	s.targetStack = s.targetStack[:lastIdx]
	if lastIdx == 0 {
		s.target = nil
		return
	}
	s.target = s.targetStack[lastIdx-1]
}

// Untracked runs fn with dependency recording suspended.
func (s *System) Untracked(fn func()) {
	s.PushTarget(nil)
	defer s.PopTarget()
	fn()
}
