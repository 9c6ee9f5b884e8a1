package ppu

import (
	"github.com/waedt/gbvideo/internal/io"
	"github.com/waedt/gbvideo/internal/types"
)

// fakeMachine is a minimal Machine double: cycles/doubleSpeed/hdma state are
// plain fields tests can poke directly, and the notification methods record
// how many times, and with what arguments, they were called.
type fakeMachine struct {
	state       int
	cycles      int32
	doubleSpeed bool
	hdmaArmed   bool

	hdmaRequests []int
	shrunkTo     []int32
	framesEnded  int
	tiltSamples  int
}

func (m *fakeMachine) ExecutionState() int      { return m.state }
func (m *fakeMachine) Cycles() int32            { return m.cycles }
func (m *fakeMachine) DoubleSpeed() bool        { return m.doubleSpeed }
func (m *fakeMachine) ShrinkNextEvent(at int32) { m.shrunkTo = append(m.shrunkTo, at) }
func (m *fakeMachine) HDMAArmed() bool          { return m.hdmaArmed }
func (m *fakeMachine) RequestHDMA(n int)        { m.hdmaRequests = append(m.hdmaRequests, n) }
func (m *fakeMachine) FrameEnded()              { m.framesEnded++ }
func (m *fakeMachine) SampleTiltSensor()        { m.tiltSamples++ }

type drawCall struct {
	startX, endX int
	y            uint8
}

type paletteCall struct {
	index int
	value uint16
}

// recordingRenderer implements Renderer and records every call it
// receives, so tests can assert on exactly what the PPU asked for without
// needing a real pixel-production backend.
type recordingRenderer struct {
	model types.Model

	finishScanlines []uint8
	finishFrames    int
	draws           []drawCall
	palettes        []paletteCall
	vramWrites      []uint16

	stride int
	pixels []uint8
}

func (r *recordingRenderer) Init(model types.Model) { r.model = model }
func (r *recordingRenderer) Deinit()                {}

func (r *recordingRenderer) WriteVideoRegister(_ uint16, value uint8) uint8 { return value }
func (r *recordingRenderer) WriteVRAM(address uint16)                      { r.vramWrites = append(r.vramWrites, address) }
func (r *recordingRenderer) WritePalette(index int, value uint16) {
	r.palettes = append(r.palettes, paletteCall{index, value})
}

func (r *recordingRenderer) DrawRange(startX, endX int, y uint8, _ []Object) {
	r.draws = append(r.draws, drawCall{startX, endX, y})
}

func (r *recordingRenderer) FinishScanline(y uint8) { r.finishScanlines = append(r.finishScanlines, y) }
func (r *recordingRenderer) FinishFrame()           { r.finishFrames++ }

func (r *recordingRenderer) GetPixels() (int, []uint8)    { return r.stride, r.pixels }
func (r *recordingRenderer) PutPixels(stride int, pixels []uint8) {
	r.stride, r.pixels = stride, pixels
}

func (r *recordingRenderer) countFinishScanline(y uint8) int {
	n := 0
	for _, s := range r.finishScanlines {
		if s == y {
			n++
		}
	}
	return n
}

// fakeFrameObserver records FrameStarted/FrameEnded notifications, the
// spec.md §5 host interaction boundary distinct from Machine.FrameEnded.
type fakeFrameObserver struct {
	started int
	ended   int
}

func (f *fakeFrameObserver) FrameStarted() { f.started++ }
func (f *fakeFrameObserver) FrameEnded()   { f.ended++ }

// fakeSyncObserver records PostFrame calls, mirroring mCoreSyncPostFrame.
type fakeSyncObserver struct {
	posts int
}

func (s *fakeSyncObserver) PostFrame() { s.posts++ }

// fakeStreamObserver records PostVideoFrame calls and their arguments.
type fakeStreamObserver struct {
	frames [][]uint8
	stride []int
}

func (s *fakeStreamObserver) PostVideoFrame(stride int, pixels []uint8) {
	s.stride = append(s.stride, stride)
	s.frames = append(s.frames, pixels)
}

// newTestPPU wires a DMG PPU against a fresh Bus and fakeMachine, with a
// recordingRenderer attached in place of the null default.
func newTestPPU() (*PPU, *io.Bus, *fakeMachine, *recordingRenderer) {
	bus := io.NewBus(types.DMG)
	m := &fakeMachine{}
	p := New(bus, m)
	rec := &recordingRenderer{}
	p.AssociateRenderer(rec)
	return p, bus, m, rec
}

// enableLCD flips LCDC's enable bit via the bus write path, exercising the
// same edge-detection the real memory subsystem would drive through.
func enableLCD(bus *io.Bus) {
	bus.Write(types.LCDC, types.Bit7)
}

// driveModes runs the PPU for exactly totalCycles, using the relative
// countdown ProcessEvents returns as the next step size — the way a real
// scheduler would — and returns the number of cycles spent in each mode.
func driveModes(p *PPU, totalCycles int32) map[uint8]int32 {
	durations := map[uint8]int32{}
	var elapsed int32
	next := p.ProcessEvents(0)
	for elapsed < totalCycles {
		step := next
		if step <= 0 || step > totalCycles-elapsed {
			step = totalCycles - elapsed
		}
		modeBefore := p.Mode()
		next = p.ProcessEvents(step)
		durations[modeBefore] += step
		elapsed += step
	}
	return durations
}
