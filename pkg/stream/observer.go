package stream

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// frameMessage tags the wire payload as a full frame.
const frameMessage byte = 1

// WebSocketObserver implements the PPU's downstream video-stream observer
// by hashing each frame and broadcasting it to every connected websocket
// client through a Hub, skipping frames identical to the last one sent.
type WebSocketObserver struct {
	hub  *Hub
	last lastFrame
}

// NewWebSocketObserver wires an observer against hub.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{hub: hub}
}

// PostVideoFrame satisfies ppu.VideoStreamObserver. stride is pixels, not
// bytes; the wire payload is the 1-byte frameMessage tag, a 4-byte
// little-endian stride header, then the raw pixel buffer.
func (o *WebSocketObserver) PostVideoFrame(stride int, pixels []uint8) {
	if o.hub == nil || o.hub.ClientCount() == 0 {
		return
	}

	hash := xxhash.Sum64(pixels)
	if o.last.sameAs(hash) {
		return
	}
	o.last.set(hash)

	message := make([]byte, 5+len(pixels))
	message[0] = frameMessage
	binary.LittleEndian.PutUint32(message[1:5], uint32(stride))
	copy(message[5:], pixels)

	o.hub.send(message)
}
