package stream

// lastFrame tracks the hash of the most recently broadcast frame so
// identical consecutive frames (frameskip, a static screen) aren't
// re-sent to every client.
type lastFrame struct {
	hash    uint64
	present bool
}

func (l *lastFrame) sameAs(hash uint64) bool {
	return l.present && l.hash == hash
}

func (l *lastFrame) set(hash uint64) {
	l.hash = hash
	l.present = true
}
