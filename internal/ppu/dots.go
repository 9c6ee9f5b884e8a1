package ppu

// processDots implements the dot-clock slicer (spec.md §4.3). It is only
// active while mode == 3 and dotCounter is scheduled (>= 0); it advances x
// towards HorizontalLengthPixels and, once the range grows, asks the
// renderer to draw the newly revealed columns.
func (p *PPU) processDots() {
	if p.mode != ModeVRAM || p.dotCounter < 0 {
		return
	}

	oldX := int32(p.x)
	cycles := p.m.Cycles()
	if p.m.DoubleSpeed() {
		cycles >>= 1
	}
	newX := p.dotCounter + p.eventDiff + cycles

	switch {
	case newX > HorizontalLengthPixels:
		newX = HorizontalLengthPixels
	case newX < 0:
		// Indicates a scheduling bug upstream (spec.md §7): hold the
		// last-good value rather than corrupting the pixel cursor.
		p.log.Fatalf("video dot clock went negative")
		newX = oldX
	}

	if newX == HorizontalLengthPixels {
		p.dotCounter = sentinelNotSlicing
	}

	p.x = uint8(newX)

	if p.frameskipCounter <= 0 {
		p.renderer.DrawRange(int(oldX), int(newX), p.ly, p.ObjectsThisLine())
	}
}
