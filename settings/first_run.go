package settings

// FirstRun is a session token that can be consumed exactly once. It gates
// opening the pause menu after the first successful load.
type FirstRun struct {
	consumed bool
}

func NewFirstRun() *FirstRun {
	return &FirstRun{}
}

// Consume reports true the first time it is called and false afterwards.
func (f *FirstRun) Consume() bool {
	if f == nil || f.consumed {
		return false
	}
	f.consumed = true
	return true
}

// Pending reports whether the token has not been consumed yet.
func (f *FirstRun) Pending() bool {
	return f != nil && !f.consumed
}
