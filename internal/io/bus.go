// Package io provides the byte-addressable I/O register file that the PPU
// reads and writes, and the interrupt-request plumbing it raises into. The
// CPU core and the rest of the memory map are external collaborators not
// modelled here; Bus only carries what the PPU needs to observe and mutate.
package io

import (
	"fmt"

	"github.com/waedt/gbvideo/internal/types"
)

// WriteHandler is invoked when a reserved address is written. It receives
// the raw byte the caller wrote and returns the byte that should actually be
// stored, allowing a handler to mask or transform the value in flight.
type WriteHandler func(value byte) byte

// LazyReader is invoked instead of a plain memory read when a reserved
// address is read, letting a handler compute the byte on demand (used by the
// CGB BCPD/OCPD palette data ports, whose read-back depends on the current
// auto-increment cursor).
type LazyReader func() byte

// Bus is a minimal byte-addressable register file. It is not a full memory
// map — just enough surface for the PPU's register handlers, modelled on
// the teacher's io.Bus.ReserveAddress/Get/Set split.
type Bus struct {
	data [0x10000]byte

	writeHandlers map[uint16]WriteHandler
	lazyReaders   map[uint16]LazyReader

	model types.Model

	irqUpdate func()
}

// NewBus creates an empty Bus for the given hardware model.
func NewBus(model types.Model) *Bus {
	return &Bus{
		writeHandlers: make(map[uint16]WriteHandler),
		lazyReaders:   make(map[uint16]LazyReader),
		model:         model,
	}
}

// Model returns the hardware model this Bus was constructed for.
func (b *Bus) Model() types.Model {
	return b.model
}

// IsGBC reports whether the Bus is running in Game Boy Color mode.
func (b *Bus) IsGBC() bool {
	return b.model == types.CGB
}

// SetModel allows switching model at runtime, e.g. when LCDC enables colour
// mode after boot ROM detection. Exposed for tests exercising both models
// against the same Bus.
func (b *Bus) SetModel(m types.Model) {
	b.model = m
}

// OnIRQUpdate registers a hook invoked on every RaiseInterrupt call, whether
// or not the bit was already set in IF, mirroring the CPU's GBUpdateIRQs
// callback. Optional: a nil hook
// is simply not called.
func (b *Bus) OnIRQUpdate(fn func()) {
	b.irqUpdate = fn
}

// ReserveAddress installs a WriteHandler for addr. Panics if addr is already
// reserved, matching the teacher's bus: double-reservation is a programmer
// error, not a runtime condition to recover from.
func (b *Bus) ReserveAddress(addr uint16, handler WriteHandler) {
	if _, ok := b.writeHandlers[addr]; ok {
		panic(fmt.Sprintf("address %04X has already been reserved", addr))
	}
	b.writeHandlers[addr] = handler
}

// ReserveLazyReader installs a LazyReader for addr, overriding plain memory
// reads at that address.
func (b *Bus) ReserveLazyReader(addr uint16, reader LazyReader) {
	b.lazyReaders[addr] = reader
}

// Get reads the byte at addr, consulting any registered LazyReader first.
func (b *Bus) Get(addr uint16) byte {
	if r, ok := b.lazyReaders[addr]; ok {
		return r()
	}
	return b.data[addr]
}

// Set stores value at addr directly, bypassing any WriteHandler. Used by
// the PPU itself to update register shadows such as LY/STAT.
func (b *Bus) Set(addr uint16, value byte) {
	b.data[addr] = value
}

// Write stores value at addr, routing through any registered WriteHandler
// first. This is the entry point an external CPU/MMU would call.
func (b *Bus) Write(addr uint16, value byte) {
	if h, ok := b.writeHandlers[addr]; ok {
		value = h(value)
	}
	b.data[addr] = value
}
