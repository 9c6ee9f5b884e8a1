package ppu

import (
	"github.com/waedt/gbvideo/internal/io"
	"github.com/waedt/gbvideo/internal/types"
)

// LCDC bits relevant to this core; the rest (tile maps, BG/window enable,
// tile data select) are the renderer's concern.
const (
	lcdcEnable  = types.Bit7
	lcdcObjSize = types.Bit2
)

// installRegisters wires every register this core owns onto the bus, per
// spec.md §4.5/§4.6. Called once from New.
func (p *PPU) installRegisters(b *io.Bus) {
	b.ReserveAddress(types.LCDC, p.writeLCDC)
	b.ReserveAddress(types.STAT, p.writeSTAT)
	b.ReserveAddress(types.LYC, p.writeLYC)
	b.ReserveAddress(types.SCY, p.writeVideoRegisterPassthrough(types.SCY))
	b.ReserveAddress(types.SCX, p.writeVideoRegisterPassthrough(types.SCX))
	b.ReserveAddress(types.WY, p.writeVideoRegisterPassthrough(types.WY))
	b.ReserveAddress(types.WX, p.writeVideoRegisterPassthrough(types.WX))
	b.ReserveAddress(types.BGP, p.writeDMGPalette(types.BGP, 0))
	b.ReserveAddress(types.OBP0, p.writeDMGPalette(types.OBP0, 32))
	b.ReserveAddress(types.OBP1, p.writeDMGPalette(types.OBP1, 36))

	if b.IsGBC() {
		b.ReserveAddress(types.VBK, p.writeVBK)
		b.ReserveAddress(types.BCPS, p.writeBCPS)
		b.ReserveAddress(types.BCPD, p.writeBCPD)
		b.ReserveAddress(types.OCPS, p.writeOCPS)
		b.ReserveAddress(types.OCPD, p.writeOCPD)
		b.ReserveLazyReader(types.BCPD, p.readBCPD)
		b.ReserveLazyReader(types.OCPD, p.readOCPD)
	}
}

// writeVideoRegisterPassthrough installs a handler that only lets the
// renderer observe/transform the byte before it is stored, for registers
// the PPU core itself doesn't otherwise interpret (SCY/SCX/WY/WX).
func (p *PPU) writeVideoRegisterPassthrough(addr uint16) io.WriteHandler {
	return func(value byte) byte {
		return p.renderer.WriteVideoRegister(addr, value)
	}
}

// writeLCDC handles the enable/disable edges described in spec.md §4.5.
func (p *PPU) writeLCDC(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.LCDC, value)

	old := p.b.Get(types.LCDC)
	wasEnabled := old&lcdcEnable != 0
	nowEnabled := value&lcdcEnable != 0

	switch {
	case !wasEnabled && nowEnabled:
		p.mode = ModeOAM
		p.nextMode = mode2LenBase - 5
		cycles := p.m.Cycles()
		if p.m.DoubleSpeed() {
			p.eventDiff = (-cycles) >> 1
		} else {
			p.eventDiff = -cycles
		}
		p.ly = 0
		p.b.Set(types.LY, 0)

		lyc := p.b.Get(types.LYC)
		p.setLYCBit(lyc == p.ly)
		p.stat = p.stat&^0x3 | p.mode
		p.b.Set(types.STAT, types.Bit7|p.stat)
		if p.stat&statLYCIRQ != 0 && lyc == p.ly {
			p.b.RaiseInterrupt(io.LCDINT)
		}

		p.nextEvent = p.nextMode
		p.m.ShrinkNextEvent(p.nextMode)

	case wasEnabled && !nowEnabled:
		p.mode = ModeHBlank
		p.nextMode = sentinelUnscheduled
		p.nextEvent = p.nextFrame
		p.ly = 0
		p.b.Set(types.LY, 0)
		p.stat = p.stat&^0x3 | p.mode
		p.b.Set(types.STAT, types.Bit7|p.stat)
	}

	return value
}

// writeSTAT preserves the mode/coincidence bits and applies the DMG
// mode-1-write IRQ bug (spec.md §4.5).
func (p *PPU) writeSTAT(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.STAT, value)

	p.stat = p.stat&0x7 | value&0x78
	if !p.b.IsGBC() && p.mode == ModeVBlank {
		p.b.RaiseInterrupt(io.LCDINT)
	}
	return types.Bit7 | p.stat
}

// writeLYC recomputes the coincidence bit while in mode 2 (spec.md §4.5).
func (p *PPU) writeLYC(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.LYC, value)

	if p.mode == ModeOAM {
		match := value == p.ly
		p.setLYCBit(match)
		p.b.Set(types.STAT, types.Bit7|p.stat)
		if p.stat&statLYCIRQ != 0 && match {
			p.b.RaiseInterrupt(io.LCDINT)
		}
	}
	return value
}

// writeVBK selects the active VRAM bank (CGB only, spec.md §4.5).
func (p *PPU) writeVBK(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.VBK, value)
	p.switchVRAMBank(value & 1)
	return value&1 | 0xfe
}
