package ppu

import (
	"github.com/waedt/gbvideo/internal/io"
	"github.com/waedt/gbvideo/internal/types"
)

// dmgShades is the fixed 4-colour table DMG palette registers decode
// through, in 15-bit CGB colour space (spec.md §4.5).
var dmgShades = [4]uint16{0x7FFF, 0x56B5, 0x294A, 0x0000}

// writeDMGPalette returns a handler that decodes a BGP/OBP0/OBP1 byte into
// four palette entries starting at base (0, 32 or 36 respectively). addr
// identifies the register for the renderer.WriteVideoRegister hook.
func (p *PPU) writeDMGPalette(addr uint16, base int) io.WriteHandler {
	return func(value byte) byte {
		value = p.renderer.WriteVideoRegister(addr, value)
		for i := 0; i < 4; i++ {
			shade := (value >> (uint(i) * 2)) & 0x3
			p.setPalette(base+i, dmgShades[shade])
		}
		return value
	}
}

// setPalette stores a 15-bit colour at index and notifies the renderer.
func (p *PPU) setPalette(index int, value uint16) {
	p.palette[index] = value
	p.renderer.WritePalette(index, value)
}

// writeBCPS / writeOCPS install the auto-increment cursor registers for
// the CGB background/object palette data ports.
func (p *PPU) writeBCPS(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.BCPS, value)
	p.bcpIndex = value & 0x3f
	p.bcpIncrement = value&0x80 != 0
	return value
}

func (p *PPU) writeOCPS(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.OCPS, value)
	p.ocpIndex = value & 0x3f
	p.ocpIncrement = value&0x80 != 0
	return value
}

// writeBCPD / writeOCPD write the low or high byte of the 15-bit colour
// under the cursor, per index parity, then advance the cursor if armed
// (spec.md §4.5).
func (p *PPU) writeBCPD(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.BCPD, value)
	p.writeCGBPaletteByte(int(p.bcpIndex), value)
	if p.bcpIncrement {
		p.bcpIndex = (p.bcpIndex + 1) & 0x3f
	}
	return value
}

func (p *PPU) writeOCPD(value byte) byte {
	value = p.renderer.WriteVideoRegister(types.OCPD, value)
	p.writeCGBPaletteByte(64+int(p.ocpIndex), value)
	if p.ocpIncrement {
		p.ocpIndex = (p.ocpIndex + 1) & 0x3f
	}
	return value
}

// writeCGBPaletteByte writes the low (even cursor) or high (odd cursor)
// byte of the colour entry at index>>1, preserving the other byte.
func (p *PPU) writeCGBPaletteByte(index int, value byte) {
	entry := index / 2
	current := p.palette[entry]
	if index%2 == 0 {
		current = current&0xff00 | uint16(value)
	} else {
		current = current&0x00ff | uint16(value)<<8
	}
	p.setPalette(entry, current)
}

// readBCPD / readOCPD reflect the byte currently under the cursor back to
// the I/O register read path (spec.md §4.5/§6).
func (p *PPU) readBCPD() byte {
	return p.readCGBPaletteByte(int(p.bcpIndex))
}

func (p *PPU) readOCPD() byte {
	return p.readCGBPaletteByte(64 + int(p.ocpIndex))
}

func (p *PPU) readCGBPaletteByte(index int) byte {
	entry := p.palette[index/2]
	if index%2 == 0 {
		return byte(entry)
	}
	return byte(entry >> 8)
}
