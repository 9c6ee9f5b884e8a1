package ppu

import (
	"testing"

	"github.com/waedt/gbvideo/internal/io"
	"github.com/waedt/gbvideo/internal/types"
)

// TestDMGPaletteDecode checks the BGP=0xE4 decode from spec.md §8.
func TestDMGPaletteDecode(t *testing.T) {
	p, bus, _, rec := newTestPPU()
	bus.Write(types.BGP, 0xE4) // 11 10 01 00

	want := [4]uint16{0x7FFF, 0x56B5, 0x294A, 0x0000}
	for i, w := range want {
		if got := p.palette[i]; got != w {
			t.Errorf("palette[%d] = %#04x, want %#04x", i, got, w)
		}
	}
	if len(rec.palettes) != 4 {
		t.Errorf("got %d WritePalette notifications, want 4", len(rec.palettes))
	}
}

// TestCGBPaletteAutoIncrement checks that a BCPD write followed by a read
// returns the byte just written, and the cursor advances modulo 64
// (spec.md §8 invariant 6).
func TestCGBPaletteAutoIncrement(t *testing.T) {
	bus := io.NewBus(types.CGB)
	m := &fakeMachine{}
	p := New(bus, m)

	bus.Write(types.BCPS, 0x80) // index 0, auto-increment armed
	bus.Write(types.BCPD, 0xAA)
	if got := bus.Get(types.BCPD); got != 0xAA {
		t.Fatalf("BCPD read back %#02x after writing low byte, want 0xAA", got)
	}
	if p.bcpIndex != 1 {
		t.Errorf("bcpIndex = %d, want 1 after one auto-incremented write", p.bcpIndex)
	}

	bus.Write(types.BCPD, 0x55)
	if got := bus.Get(types.BCPD); got != 0x55 {
		t.Fatalf("BCPD read back %#02x after writing high byte, want 0x55", got)
	}
	if got := p.palette[0]; got != 0x55AA {
		t.Errorf("palette[0] = %#04x, want 0x55AA", got)
	}

	bus.Write(types.BCPS, 0x80|0x3F) // wrap the index to 63
	bus.Write(types.BCPD, 0x01)
	if p.bcpIndex != 0 {
		t.Errorf("bcpIndex = %d, want 0 after wrapping past 63", p.bcpIndex)
	}
}

// TestCGBObjectPaletteWrite checks that OCPS/OCPD address the object
// palette range 32..63, not the background range, and never disturb
// background entries 16..31 sitting in between.
func TestCGBObjectPaletteWrite(t *testing.T) {
	bus := io.NewBus(types.CGB)
	m := &fakeMachine{}
	p := New(bus, m)

	bus.Write(types.OCPS, 0x80) // index 0, auto-increment armed
	bus.Write(types.OCPD, 0xAA)
	if got := bus.Get(types.OCPD); got != 0xAA {
		t.Fatalf("OCPD read back %#02x after writing low byte, want 0xAA", got)
	}
	if p.ocpIndex != 1 {
		t.Errorf("ocpIndex = %d, want 1 after one auto-incremented write", p.ocpIndex)
	}

	bus.Write(types.OCPD, 0x55)
	if got := bus.Get(types.OCPD); got != 0x55 {
		t.Fatalf("OCPD read back %#02x after writing high byte, want 0x55", got)
	}
	if got := p.palette[32]; got != 0x55AA {
		t.Errorf("palette[32] = %#04x, want 0x55AA", got)
	}
	for i := 16; i < 32; i++ {
		if p.palette[i] != 0 {
			t.Errorf("palette[%d] = %#04x, want 0 (background range untouched by an object palette write)", i, p.palette[i])
		}
	}

	// index 63 (the last object-palette byte) must land at palette[63],
	// not wrap into the background range.
	bus.Write(types.OCPS, 0x3F) // index 63, auto-increment off
	bus.Write(types.OCPD, 0x7F)
	if got := p.palette[63]; got != 0x7F00 {
		t.Errorf("palette[63] = %#04x, want 0x7F00", got)
	}
}
