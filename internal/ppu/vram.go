package ppu

// vramBankSize is the size of a single VRAM bank; DMG uses only bank 0,
// CGB banks 0 and 1 (spec.md §3).
const vramBankSize = 0x2000

// switchVRAMBank selects the active VRAM bank (0 or 1), persisting the
// selection in vramCurrentBank (spec.md §4.5).
func (p *PPU) switchVRAMBank(bank uint8) {
	p.vramCurrentBank = bank & 1
}

// vramBank returns a view of the currently selected 8 KiB bank.
func (p *PPU) vramBank() []uint8 {
	start := int(p.vramCurrentBank) * vramBankSize
	return p.vram[start : start+vramBankSize]
}

// ReadVRAM reads a byte at offset (0..0x1fff) from the active bank.
func (p *PPU) ReadVRAM(offset uint16) uint8 {
	return p.vramBank()[offset]
}

// WriteVRAM stores a byte at offset in the active bank and notifies the
// renderer's cache-invalidation hook, addressed within the bank (spec.md
// §4.6).
func (p *PPU) WriteVRAM(offset uint16, value uint8) {
	p.vramBank()[offset] = value
	p.renderer.WriteVRAM(offset)
}
