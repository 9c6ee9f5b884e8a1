package ppu

import (
	"github.com/waedt/gbvideo/internal/types"
	"github.com/waedt/gbvideo/pkg/snapshot"
)

// flag bits packed into the single serialized flags byte, alongside the
// two bcp/ocp auto-increment flags (spec.md §6).
const (
	flagBCPIncrement = types.Bit0
	flagOCPIncrement = types.Bit1
	flagModeShift    = 2 // mode occupies bits 2..3
)

// Save writes the complete PPU snapshot described in spec.md §6 to s:
// timing countdowns, palette/banking state, then the full VRAM and OAM
// buffers. nextFrame is also carried, even though spec.md's field list
// omits it, because a restore without it would leave the frame-completion
// event unscheduled (see DESIGN.md).
func (p *PPU) Save(s *types.State) {
	s.Write16(uint16(p.x))
	s.Write16(uint16(p.ly))
	s.Write32(uint32(p.nextEvent))
	s.Write32(uint32(p.eventDiff))
	s.Write32(uint32(p.nextMode))
	s.Write32(uint32(p.dotCounter))
	s.Write32(uint32(p.frameCounter))
	s.Write32(uint32(p.nextFrame))
	s.Write8(p.vramCurrentBank)

	flags := uint8(p.mode) << flagModeShift
	if p.bcpIncrement {
		flags |= flagBCPIncrement
	}
	if p.ocpIncrement {
		flags |= flagOCPIncrement
	}
	s.Write8(flags)

	s.Write16(uint16(p.bcpIndex))
	s.Write16(uint16(p.ocpIndex))
	for _, c := range p.palette {
		s.Write16(c)
	}

	s.WriteData(p.vram[:])
	for i := uint16(0); i < 160; i++ {
		s.Write8(p.ReadOAM(i))
	}
}

// Load restores a snapshot written by Save: countdowns and banking state
// are read back verbatim, the renderer is replayed every palette entry,
// the active VRAM bank is reselected, and the OAM scan is re-run for the
// current line (spec.md §6).
func (p *PPU) Load(s *types.State) {
	p.x = uint8(s.Read16())
	p.ly = uint8(s.Read16())
	p.nextEvent = int32(s.Read32())
	p.eventDiff = int32(s.Read32())
	p.nextMode = int32(s.Read32())
	p.dotCounter = int32(s.Read32())
	p.frameCounter = s.Read32()
	p.nextFrame = int32(s.Read32())
	p.vramCurrentBank = s.Read8()

	flags := s.Read8()
	p.mode = flags >> flagModeShift
	p.bcpIncrement = flags&flagBCPIncrement != 0
	p.ocpIncrement = flags&flagOCPIncrement != 0

	p.bcpIndex = uint8(s.Read16())
	p.ocpIndex = uint8(s.Read16())
	for i := range p.palette {
		p.palette[i] = s.Read16()
	}
	for i, c := range p.palette {
		p.renderer.WritePalette(i, c)
	}

	s.ReadData(p.vram[:])
	p.switchVRAMBank(p.vramCurrentBank)

	oamBytes := make([]byte, 160)
	s.ReadData(oamBytes)
	for i, b := range oamBytes {
		p.WriteOAM(uint16(i), b)
	}

	p.scanOAM(p.ly)

	// Mirror the restored state onto the I/O register file: every other
	// path that changes ly/mode/stat updates the bus shadow before
	// returning (spec.md §3), and a restore is no exception.
	lyReg := p.ly
	if p.ly == VirtualLines-1 {
		lyReg = 0 // line-153 quirk (spec.md §4.1)
	}
	p.b.Set(types.LY, lyReg)
	p.stat = p.stat&^0x3 | p.mode
	p.b.Set(types.STAT, types.Bit7|p.stat)
	p.b.Set(types.VBK, p.vramCurrentBank&1|0xfe)
}

// MarshalSnapshot serializes the PPU and brotli-compresses the result via
// pkg/snapshot, the same way the teacher compresses frame payloads before
// they leave the process, rather than carrying the ~16.5 KiB raw blob
// verbatim.
func (p *PPU) MarshalSnapshot() ([]byte, error) {
	return snapshot.Marshal(p)
}

// UnmarshalSnapshot decompresses and restores a snapshot produced by
// MarshalSnapshot.
func (p *PPU) UnmarshalSnapshot(data []byte) error {
	return snapshot.Unmarshal(p, data)
}
