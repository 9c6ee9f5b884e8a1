// Package ppu implements the Game Boy / Game Boy Color picture processing
// unit's timing and state core: the mode-sequencing state machine, the
// per-scanline OAM scan, the dot-clock pixel slice engine, palette/VRAM
// banking, and the interrupt-request side effects the video hardware raises
// into the CPU. Pixel production itself is delegated to a Renderer.
//
// References:
//   - Pan Docs (gbdev.io/pandocs)
//   - mGBA's src/gb/video.c, which this core's timing is grounded on
package ppu

import (
	"math"

	"github.com/waedt/gbvideo/internal/io"
	"github.com/waedt/gbvideo/internal/types"
	"github.com/waedt/gbvideo/pkg/log"
)

// Mode identifies which of the four PPU modes is currently active. The
// numeric values match the low two bits of the STAT register.
const (
	ModeHBlank = 0 // Mode 0 - Horizontal Blanking
	ModeVBlank = 1 // Mode 1 - Vertical Blanking
	ModeOAM    = 2 // Mode 2 - OAM scan
	ModeVRAM   = 3 // Mode 3 - Pixel transfer
)

// Timing constants, in dots (PPU clock ticks). Doubling for CGB double-speed
// mode happens at the CPU/scheduler boundary, not in here (spec.md §4.1).
const (
	HorizontalLength       = 456   // dots per scanline
	HorizontalLengthPixels = 160   // visible pixels per scanline
	VisibleLines           = 144   // LY 0..143
	VirtualLines           = 154   // LY 0..153 total
	TotalLength            = 70224 // dots per frame on DMG

	mode2LenBase = 80
	mode3LenBase = 172
	mode0LenBase = 204
)

// sentinelUnscheduled / sentinelNotSlicing mirror mGBA's INT32_MAX/INT32_MIN
// "not scheduled" / "not slicing" markers. A presence/absence sum type would
// be cleaner (spec.md §9 says so explicitly) but the hot ProcessEvents path
// is called once per CPU instruction; keeping it an int32 comparison avoids
// an allocation and keeps the arithmetic identical to the reference.
const (
	sentinelUnscheduled int32 = math.MaxInt32
	sentinelNotSlicing  int32 = math.MinInt32
)

// Machine is the external CPU/scheduler collaborator the PPU is driven by.
// The PPU holds only a non-owning reference to it (spec.md §9): the owning
// machine must outlive the PPU.
type Machine interface {
	// ExecutionState reports the CPU's current execution-state indicator.
	// 0 means the CPU is at an instruction-fetch boundary.
	ExecutionState() int
	// Cycles returns the CPU's elapsed cycle count, used by the dot-clock
	// slicer to compute how far the pixel cursor has advanced.
	Cycles() int32
	// DoubleSpeed reports whether CGB double-speed mode is active.
	DoubleSpeed() bool
	// ShrinkNextEvent lets the PPU pull the CPU's own next-wakeup forward
	// when a PPU event needs to fire sooner (used on LCD enable).
	ShrinkNextEvent(atCycle int32)
	// HDMAArmed reports whether the memory subsystem has an HDMA transfer
	// configured and ready (HDMA5 bit 7 clear).
	HDMAArmed() bool
	// RequestHDMA arms an n-byte HDMA transfer to run at the next CPU
	// cycle, fired on mode-0 entry per spec.md §4.1.
	RequestHDMA(n int)
	// FrameEnded runs the CPU-core-level frame-boundary housekeeping
	// (serial/RTC/etc.) that belongs to the machine, not the PPU, fired
	// at the start of each frame-completion per spec.md §4.2.
	FrameEnded()
	// SampleTiltSensor samples the MBC7 accelerometer, if the attached
	// cartridge is an MBC7 with a rotation provider, fired on the 1→2
	// vblank-wrap transition per spec.md §4.1. A no-op for every other
	// cartridge type — the PPU never inspects cartridge identity itself.
	SampleTiltSensor()
}

// PPU is the picture processing unit core. Every exported field and method
// corresponds to a piece of spec.md §3's VideoState.
type PPU struct {
	// Rendering state
	ly     uint8 // current scanline, 0..153
	x      uint8 // horizontal pixel cursor, meaningful only in mode 3
	mode   uint8 // current mode, mirrored into stat[0..1]
	stat   uint8 // STAT register shadow

	nextEvent int32 // relative countdown to the next event
	nextMode  int32 // relative countdown to the next mode transition
	nextFrame int32 // relative countdown to frame completion
	eventDiff int32 // cycles accumulated since countdowns were last applied

	dotCounter int32 // base cycle mark for the mode-3 dot slicer

	frameCounter uint32 // monotonically increasing count of emitted frames

	frameskip        int // configured skip N
	frameskipCounter int // remaining counter

	// VRAM/OAM storage
	vram            [0x4000]uint8 // 16 KiB, two 8 KiB banks on CGB
	vramCurrentBank uint8         // 0 or 1
	oam             [40]Object    // 160 bytes, 4 bytes per sprite

	objThisLine [10]Object // result of the last OAM scan
	objMax      int        // 0..10

	// Palette storage: 64 entries of 15-bit colour. 0..31 background
	// (8 palettes x 4 colours), 32..63 object.
	palette [64]uint16

	bcpIndex     uint8
	ocpIndex     uint8
	bcpIncrement bool
	ocpIncrement bool

	renderer Renderer

	syncObserver  SyncObserver
	frameObserver FrameObserver
	streamObs     VideoStreamObserver

	b *io.Bus
	m Machine

	log log.Logger
}

// New creates a PPU wired against the given Bus and Machine, with all
// register handlers installed. The PPU starts in the reset state.
func New(b *io.Bus, m Machine) *PPU {
	p := &PPU{
		b:        b,
		m:        m,
		renderer: &NullRenderer{},
		log:      log.New(),
	}
	p.installRegisters(b)
	p.Reset()
	return p
}

// SetLogger overrides the default stdout logger, e.g. with log.NewNull() in
// tests that intentionally trigger the FATAL invariant-violation path.
func (p *PPU) SetLogger(l log.Logger) { p.log = l }

// SetSyncObserver attaches the frame-pacing sink invoked at frame-end
// (spec.md §4.2's mCoreSyncPostFrame equivalent).
func (p *PPU) SetSyncObserver(s SyncObserver) { p.syncObserver = s }

// SetFrameObserver attaches the frame-started/frame-ended notification
// sink (spec.md §5's host interaction boundary).
func (p *PPU) SetFrameObserver(f FrameObserver) { p.frameObserver = f }

// SetVideoStreamObserver attaches the optional downstream video-stream
// observer described in spec.md §4.2.
func (p *PPU) SetVideoStreamObserver(v VideoStreamObserver) { p.streamObs = v }

// AssociateRenderer detaches the current renderer and attaches r, mirroring
// GBVideoAssociateRenderer: deinit the old renderer, init the new one.
func (p *PPU) AssociateRenderer(r Renderer) {
	if p.renderer != nil {
		p.renderer.Deinit()
	}
	p.renderer = r
	model := types.DMG
	if p.b.IsGBC() {
		model = types.CGB
	}
	p.renderer.Init(model)
}

// Reset reinitializes the PPU to its post-power-on state: VRAM cleared,
// palettes zeroed, OAM zeroed, mode set to 1, ly=0, stat=1, countdowns
// unscheduled, renderer re-bound (spec.md §3 Lifecycle).
func (p *PPU) Reset() {
	p.ly = 0
	p.x = 0
	p.mode = ModeVBlank
	p.stat = 1

	p.nextEvent = sentinelUnscheduled
	p.eventDiff = 0
	p.nextMode = sentinelUnscheduled
	p.dotCounter = sentinelNotSlicing
	p.nextFrame = sentinelUnscheduled

	p.frameCounter = 0
	p.frameskipCounter = 0

	for i := range p.vram {
		p.vram[i] = 0
	}
	p.switchVRAMBank(0)

	for i := range p.oam {
		p.oam[i] = Object{}
	}
	for i := range p.palette {
		p.palette[i] = 0
	}

	if p.renderer != nil {
		p.renderer.Deinit()
		model := types.DMG
		if p.b.IsGBC() {
			model = types.CGB
		}
		p.renderer.Init(model)
	}
}

// Deinit detaches the renderer (reinstating the null renderer) and releases
// VRAM (spec.md §3 Lifecycle).
func (p *PPU) Deinit() {
	p.AssociateRenderer(&NullRenderer{})
	for i := range p.vram {
		p.vram[i] = 0
	}
}

// FrameCounter returns the number of frames emitted so far.
func (p *PPU) FrameCounter() uint32 { return p.frameCounter }

// LY returns the currently active scanline index.
func (p *PPU) LY() uint8 { return p.ly }

// Mode returns the current PPU mode (0..3).
func (p *PPU) Mode() uint8 { return p.mode }

// SetFrameskip configures how many frames are skipped (timing-wise computed,
// not drawn/posted) for every one that is fully presented.
func (p *PPU) SetFrameskip(n int) {
	p.frameskip = n
	p.frameskipCounter = n
}

// ProcessEvents advances the PPU by cycles CPU dots and returns the
// relative cycle count after which the caller must invoke ProcessEvents
// again. The caller may invoke earlier with a smaller argument; no harm
// comes of it (spec.md §5).
func (p *PPU) ProcessEvents(cycles int32) int32 {
	p.eventDiff += cycles
	if p.nextEvent != sentinelUnscheduled {
		p.nextEvent -= cycles
	}

	if p.nextEvent <= 0 {
		if p.nextMode != sentinelUnscheduled {
			p.nextMode -= p.eventDiff
		}
		if p.nextFrame != sentinelUnscheduled {
			p.nextFrame -= p.eventDiff
		}
		p.nextEvent = sentinelUnscheduled

		p.processDots()

		if p.nextMode <= 0 {
			p.handleModeTransition()
		}

		if p.nextFrame <= 0 {
			p.processFrameEnd()
		}

		if p.nextMode < p.nextEvent {
			p.nextEvent = p.nextMode
		}
		p.eventDiff = 0
	}

	return p.nextEvent
}
