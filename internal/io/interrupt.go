package io

import "github.com/waedt/gbvideo/internal/types"

// Interrupt request bits, as written into the IF register. Only the two the
// PPU raises are named here; Timer/Serial/Joypad belong to other subsystems.
const (
	VBlankINT = types.Bit0 // requested every time the PPU enters VBlank (mode 1)
	LCDINT    = types.Bit1 // requested by the LCD STAT conditions in §4.1/§4.5
)

// RaiseInterrupt sets the given bit in the IF register and notifies any
// registered IRQ-update hook, mirroring the teacher's
// io.Bus.RaiseInterrupt/GBUpdateIRQs pairing.
func (b *Bus) RaiseInterrupt(flag byte) {
	b.data[types.IF] |= flag
	if b.irqUpdate != nil {
		b.irqUpdate()
	}
}
