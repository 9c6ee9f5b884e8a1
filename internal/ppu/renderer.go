package ppu

import "github.com/waedt/gbvideo/internal/types"

// Renderer is the capability set a pluggable pixel-production backend must
// implement (spec.md §4.6). The PPU calls these at precise timing boundaries
// — the contract this module owns is *when*, never *what* gets drawn.
type Renderer interface {
	// Init/Deinit are invoked on attach/detach/reset.
	Init(model types.Model)
	Deinit()

	// WriteVideoRegister lets the renderer observe, and optionally
	// transform, a video register byte before the PPU stores it.
	WriteVideoRegister(address uint16, value uint8) uint8

	// WriteVRAM is an invalidation notification for the byte at address.
	WriteVRAM(address uint16)

	// WritePalette notifies that the colour at index changed to the given
	// 15-bit value.
	WritePalette(index int, value uint16)

	// DrawRange produces pixels for the half-open column range [startX,
	// endX) of line y, consulting only the supplied sprite set.
	DrawRange(startX, endX int, y uint8, objThisLine []Object)

	// FinishScanline/FinishFrame are boundary notifications.
	FinishScanline(y uint8)
	FinishFrame()

	// GetPixels/PutPixels give the host backbuffer access for streaming
	// and snapshot restore. stride is in pixels, not bytes.
	GetPixels() (stride int, pixels []uint8)
	PutPixels(stride int, pixels []uint8)
}

// TileCache is the narrow capability a software tile cache exposes to the
// null renderer's cache-invalidation forwarding (spec.md §4.6, §9).
type TileCache interface {
	WriteVRAM(address uint16)
	WritePalette(index int)
}

// NullRenderer satisfies Renderer with no side effects beyond forwarding
// cache-invalidation notifications to an optionally attached TileCache. It
// is the default renderer before a host attaches a real one, and is
// reinstated on Deinit (spec.md §4.6).
type NullRenderer struct {
	cache TileCache
}

// AttachTileCache optionally wires a tile cache to receive invalidation
// notifications forwarded from WriteVRAM/WritePalette.
func (n *NullRenderer) AttachTileCache(c TileCache) { n.cache = c }

func (n *NullRenderer) Init(types.Model) {}
func (n *NullRenderer) Deinit()          {}

func (n *NullRenderer) WriteVideoRegister(_ uint16, value uint8) uint8 { return value }

func (n *NullRenderer) WriteVRAM(address uint16) {
	if n.cache != nil {
		n.cache.WriteVRAM(address)
	}
}

func (n *NullRenderer) WritePalette(index int, _ uint16) {
	if n.cache != nil {
		n.cache.WritePalette(index)
	}
}

func (n *NullRenderer) DrawRange(int, int, uint8, []Object) {}
func (n *NullRenderer) FinishScanline(uint8)                {}
func (n *NullRenderer) FinishFrame()                        {}

func (n *NullRenderer) GetPixels() (int, []uint8) { return 0, nil }
func (n *NullRenderer) PutPixels(int, []uint8)    {}

// SyncObserver is the frame-pacing sink invoked when a fully-presented
// frame (frameskipCounter rolled over) is ready, mirroring mGBA's
// mCoreSyncPostFrame (spec.md §4.2, §5). Implementations may block for
// pacing; the PPU only calls this between mode transitions, never mid-mode.
type SyncObserver interface {
	PostFrame()
}

// FrameObserver receives the frame-started/frame-ended boundary
// notifications described in spec.md §5.
type FrameObserver interface {
	FrameStarted()
	FrameEnded()
}

// VideoStreamObserver is the optional downstream consumer described in
// spec.md §4.2: when attached, it receives the backbuffer of every
// completed, non-skipped frame.
type VideoStreamObserver interface {
	PostVideoFrame(stride int, pixels []uint8)
}
