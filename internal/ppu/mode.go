package ppu

import (
	"github.com/waedt/gbvideo/internal/io"
	"github.com/waedt/gbvideo/internal/types"
)

// STAT bit layout: mode occupies bits 0-1, coincidence bit 2, and bits 3-6
// enable the HBlank/VBlank/OAM/LYC interrupt sources respectively.
const (
	statHblankIRQ = types.Bit3
	statVblankIRQ = types.Bit4
	statOAMIRQ    = types.Bit5
	statLYCIRQ    = types.Bit6
	statLYC       = types.Bit2
)

// handleModeTransition fires the 0→2, 0→1, 1→1, 1→2, 2→3 and 3→0
// transitions described in spec.md §4.1. It is only called when nextMode
// has reached zero inside ProcessEvents.
func (p *PPU) handleModeTransition() {
	lyc := p.b.Get(types.LYC)

	switch p.mode {
	case ModeHBlank:
		if p.frameskipCounter <= 0 {
			p.renderer.FinishScanline(p.ly)
		}
		p.ly++
		p.b.Set(types.LY, p.ly)
		p.setLYCBit(lyc == p.ly)

		if p.ly < VisibleLines {
			p.nextMode = mode2LenBase + int32(p.b.Get(types.SCX)&7)
			p.mode = ModeOAM
			if p.stat&statHblankIRQ == 0 && p.stat&statOAMIRQ != 0 {
				p.b.RaiseInterrupt(io.LCDINT)
			}
		} else {
			p.nextMode = HorizontalLength
			p.mode = ModeVBlank
			if p.nextFrame != 0 {
				p.nextFrame = 0
			}
			if p.stat&statVblankIRQ != 0 || p.stat&statOAMIRQ != 0 {
				p.b.RaiseInterrupt(io.LCDINT)
			}
			p.b.RaiseInterrupt(io.VBlankINT)
			if p.frameObserver != nil {
				p.frameObserver.FrameEnded()
			}
		}

		if p.stat&statLYCIRQ != 0 && lyc == p.ly {
			p.b.RaiseInterrupt(io.LCDINT)
		}

	case ModeVBlank:
		p.ly++
		switch {
		case p.ly == VirtualLines: // 154 -> wrap to line 0
			p.ly = 0
			p.b.Set(types.LY, 0)
			// Entry from mode 1 uses the plain mode-2 length, unlike
			// entry from mode 0 which adds SCX&7 (spec.md §4.1 table;
			// see DESIGN.md for the divergence from the mGBA source
			// this core is otherwise grounded on).
			p.nextMode = mode2LenBase
			p.mode = ModeOAM
			if p.stat&statOAMIRQ != 0 {
				p.b.RaiseInterrupt(io.LCDINT)
			}
			p.m.SampleTiltSensor()
			// Unlike the mGBA source this is otherwise grounded on (which
			// calls finishFrame unconditionally), suppress it while
			// frameskipping: spec.md §8's frameskip scenario lists
			// finishFrame alongside drawRange/finishScanline/postVideoFrame
			// as calls that must not occur on a skipped frame.
			// processFrameEnd has already run for the frame ending here and
			// reloads frameskipCounter to frameskip only when that frame was
			// presented, so that reload identifies a drawn frame.
			if p.frameskipCounter == p.frameskip {
				p.renderer.FinishFrame()
			}
			p.stat = p.stat&^0x3 | p.mode
			p.b.Set(types.STAT, types.Bit7|p.stat)
			return // skip the shared LYC-bit update below, as the reference does
		case p.ly == VirtualLines-1: // 153 -> LY register reads 0 (the quirk)
			p.b.Set(types.LY, 0)
			p.nextMode = HorizontalLength - 8
		case p.ly == VirtualLines-2: // 152 -> short 8-dot step
			p.b.Set(types.LY, p.ly)
			p.nextMode = 8
		default:
			p.b.Set(types.LY, p.ly)
			p.nextMode = HorizontalLength
		}

		lyReg := p.b.Get(types.LY)
		p.setLYCBit(lyc == lyReg)
		if p.stat&statLYCIRQ != 0 && lyc == lyReg {
			p.b.RaiseInterrupt(io.LCDINT)
		}

	case ModeOAM:
		p.scanOAM(p.ly)
		p.dotCounter = 0
		p.nextEvent = HorizontalLength
		p.x = 0
		p.nextMode = mode3LenBase + int32(p.objMax*11) - int32(p.b.Get(types.SCX)&7)
		p.mode = ModeVRAM

	case ModeVRAM:
		p.nextMode = mode0LenBase - int32(p.objMax*11)
		p.mode = ModeHBlank
		if p.stat&statHblankIRQ != 0 {
			p.b.RaiseInterrupt(io.LCDINT)
		}
		if p.ly < VisibleLines && p.m.HDMAArmed() {
			p.m.RequestHDMA(16)
		}
	}

	p.stat = p.stat&^0x3 | p.mode
	p.b.Set(types.STAT, types.Bit7|p.stat)
}

// setLYCBit updates STAT's coincidence bit (bit 2).
func (p *PPU) setLYCBit(match bool) {
	if match {
		p.stat |= statLYC
	} else {
		p.stat &^= statLYC
	}
}

// processFrameEnd implements spec.md §4.2: emitting a completed frame, the
// frameskip/presentation bookkeeping, and the fetch-boundary deferral for
// when the CPU isn't at an instruction boundary yet.
func (p *PPU) processFrameEnd() {
	if p.m.ExecutionState() == 0 {
		p.m.FrameEnded()
		p.nextFrame = TotalLength
		p.nextEvent = TotalLength

		p.frameskipCounter--
		if p.frameskipCounter < 0 {
			if p.syncObserver != nil {
				p.syncObserver.PostFrame()
			}
			if p.streamObs != nil {
				stride, pixels := p.renderer.GetPixels()
				p.streamObs.PostVideoFrame(stride, pixels)
			}
			p.frameskipCounter = p.frameskip
		}

		p.frameCounter++
		if p.frameObserver != nil {
			p.frameObserver.FrameStarted()
		}
	} else {
		p.nextFrame = 4 - int32((p.m.ExecutionState()+1)&3)
		if p.nextFrame < p.nextEvent {
			p.nextEvent = p.nextFrame
		}
	}
}
